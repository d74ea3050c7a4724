package models

// ResponseKind is the closed set of payload kinds a canned response can carry.
type ResponseKind string

const (
	ResponseKindText     ResponseKind = "text"
	ResponseKindLink     ResponseKind = "link"
	ResponseKindPhoto    ResponseKind = "photo"
	ResponseKindVideo    ResponseKind = "video"
	ResponseKindAudio    ResponseKind = "audio"
	ResponseKindDocument ResponseKind = "document"
)

// ResponseKinds lists every kind in keyboard order.
var ResponseKinds = []ResponseKind{
	ResponseKindText,
	ResponseKindPhoto,
	ResponseKindVideo,
	ResponseKindAudio,
	ResponseKindDocument,
	ResponseKindLink,
}

// Valid reports whether k is one of the six known kinds.
func (k ResponseKind) Valid() bool {
	switch k {
	case ResponseKindText, ResponseKindLink, ResponseKindPhoto,
		ResponseKindVideo, ResponseKindAudio, ResponseKindDocument:
		return true
	}
	return false
}

// IsMedia reports whether the payload is a base64-encoded attachment rather than text.
func (k ResponseKind) IsMedia() bool {
	switch k {
	case ResponseKindPhoto, ResponseKindVideo, ResponseKindAudio, ResponseKindDocument:
		return true
	}
	return false
}

// FileName is the attachment name used when sending a media payload.
func (k ResponseKind) FileName() string {
	switch k {
	case ResponseKindPhoto:
		return "image.jpg"
	case ResponseKindVideo:
		return "video.mp4"
	case ResponseKindAudio:
		return "audio.mp3"
	}
	return "file.bin"
}

func (k ResponseKind) ContentType() string {
	switch k {
	case ResponseKindPhoto:
		return "image/jpeg"
	case ResponseKindVideo:
		return "video/mp4"
	case ResponseKindAudio:
		return "audio/mpeg"
	case ResponseKindText, ResponseKindLink:
		return "text/plain; charset=utf-8"
	}
	return "application/octet-stream"
}

// Response is an auto-response rule. Trigger is stored normalized (trimmed, lower-cased)
// and is the primary key, which keeps triggers globally unique. Media payloads are
// base64 text; the size tag maps Content to TEXT/LONGTEXT on every driver.
type Response struct {
	Trigger string       `gorm:"column:trigger_text;primaryKey;size:255" json:"trigger" validate:"required,max=255"`
	Kind    ResponseKind `gorm:"size:16;not null" json:"kind" validate:"required,oneof=text link photo video audio document"`
	Content string       `gorm:"size:16777216;not null" json:"content" validate:"required"`

	Timestamps
}

func (Response) TableName() string { return "responses" }
