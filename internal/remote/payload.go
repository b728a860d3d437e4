package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strconv"
)

// File is an upload attached to a payload.
type File struct {
	Field    string
	Name     string
	Contents io.Reader
}

type field struct {
	key   string
	value string
}

// Payload is the body of a mutation. Fields keep their insertion order. A
// payload with a file is sent as multipart form data, one with JSON set as a
// JSON document, anything else as a URL-encoded form.
type Payload struct {
	fields []field
	file   *File
	json   any
}

func NewPayload() *Payload { return &Payload{} }

// JSONPayload sends v as the request body.
func JSONPayload(v any) *Payload { return &Payload{json: v} }

func (p *Payload) Set(key, value string) *Payload {
	p.fields = append(p.fields, field{key: key, value: value})
	return p
}

// SetOptional skips empty values.
func (p *Payload) SetOptional(key, value string) *Payload {
	if value == "" {
		return p
	}
	return p.Set(key, value)
}

func (p *Payload) SetInt(key string, value int) *Payload {
	return p.Set(key, strconv.Itoa(value))
}

func (p *Payload) SetFloat(key string, value float64) *Payload {
	return p.Set(key, strconv.FormatFloat(value, 'f', -1, 64))
}

// SetBool writes "1" or "0", the form booleans the API expects.
func (p *Payload) SetBool(key string, value bool) *Payload {
	if value {
		return p.Set(key, "1")
	}
	return p.Set(key, "0")
}

func (p *Payload) Attach(file *File) *Payload {
	p.file = file
	return p
}

// Value returns the first value set for key.
func (p *Payload) Value(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, f := range p.fields {
		if f.key == key {
			return f.value, true
		}
	}
	return "", false
}

// Len counts form fields.
func (p *Payload) Len() int {
	if p == nil {
		return 0
	}
	return len(p.fields)
}

// encode returns the body and its content type.
func (p *Payload) encode() (io.Reader, string, error) {
	if p == nil {
		return nil, "", nil
	}
	if p.json != nil {
		raw, err := json.Marshal(p.json)
		if err != nil {
			return nil, "", fmt.Errorf("remote: encode json payload: %w", err)
		}
		return bytes.NewReader(raw), "application/json", nil
	}
	if p.file != nil && p.file.Contents != nil {
		return p.multipart()
	}
	form := url.Values{}
	for _, f := range p.fields {
		form.Add(f.key, f.value)
	}
	return bytes.NewBufferString(form.Encode()), "application/x-www-form-urlencoded", nil
}

func (p *Payload) multipart() (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, f := range p.fields {
		if err := writer.WriteField(f.key, f.value); err != nil {
			return nil, "", fmt.Errorf("remote: write field %s: %w", f.key, err)
		}
	}
	name := p.file.Name
	if name == "" {
		name = p.file.Field
	}
	part, err := writer.CreateFormFile(p.file.Field, name)
	if err != nil {
		return nil, "", fmt.Errorf("remote: create form file: %w", err)
	}
	if _, err := io.Copy(part, p.file.Contents); err != nil {
		return nil, "", fmt.Errorf("remote: copy form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}
