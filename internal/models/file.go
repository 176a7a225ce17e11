package models

// Upload is a file received from a form, not yet stored.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// File describes a stored object.
type File struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}
