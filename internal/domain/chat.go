package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role tags a transcript entry for styling.
type Role string

const (
	RoleUser  Role = "user"
	RoleBot   Role = "bot"
	RoleError Role = "error"
)

// ChatMessage is one entry of a chat transcript.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Images    []Image   `json:"images,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Image is an image reference attached to a bot reply.
type Image struct {
	URL     string `json:"url"`
	Figure  *int   `json:"figure_no,omitempty"`
	Page    *int   `json:"page,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// UnmarshalJSON accepts a bare URL string or an object with a url field.
func (i *Image) UnmarshalJSON(data []byte) error {
	var url string
	if err := json.Unmarshal(data, &url); err == nil {
		*i = Image{URL: url}
		return nil
	}
	type plain Image
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return errors.New("image must be a URL string or an object with a url field")
	}
	*i = Image(p)
	return nil
}

// Describe renders the image reference as one line of text.
func (i Image) Describe() string {
	var meta []string
	if i.Figure != nil {
		meta = append(meta, fmt.Sprintf("fig. %d", *i.Figure))
	}
	if i.Page != nil {
		meta = append(meta, fmt.Sprintf("p. %d", *i.Page))
	}
	if i.Caption != "" {
		meta = append(meta, i.Caption)
	}
	if len(meta) == 0 {
		return "[image] " + i.URL
	}
	return "[image] " + i.URL + " (" + strings.Join(meta, ", ") + ")"
}
