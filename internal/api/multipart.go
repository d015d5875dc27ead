package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// Attachment is one binary file included in a multipart create/update,
// such as a property or profile image.
type Attachment struct {
	Field    string
	FileName string
	Reader   io.Reader
}

// encodeMultipart builds a multipart/form-data body from scalar fields and
// file attachments. Empty field values are skipped, matching how the forms
// only submit populated inputs.
func encodeMultipart(fields map[string]string, files []Attachment) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("api: write field %s: %w", name, err)
		}
	}
	for _, file := range files {
		if file.Reader == nil {
			continue
		}
		name := file.FileName
		if name == "" {
			name = file.Field
		}
		part, err := writer.CreateFormFile(file.Field, name)
		if err != nil {
			return nil, "", fmt.Errorf("api: create part %s: %w", file.Field, err)
		}
		if _, err := io.Copy(part, file.Reader); err != nil {
			return nil, "", fmt.Errorf("api: copy %s: %w", file.Field, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}
