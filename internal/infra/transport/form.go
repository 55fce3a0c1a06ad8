package transport

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/pkg/errors"
)

// Form is a multipart payload for file-bearing resources (product, category,
// banner and blog images). Fields and files keep insertion order.
type Form struct {
	fields []formField
	files  []FormFile
}

type formField struct {
	name  string
	value string
}

// FormFile is one uploaded file.
type FormFile struct {
	Field       string
	Filename    string
	ContentType string
	Content     io.Reader
}

// NewForm returns an empty multipart payload.
func NewForm() *Form {
	return &Form{}
}

// Set adds a text field. Repeated names are sent as repeated parts.
func (f *Form) Set(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})

	return f
}

// AddFile adds a file part.
func (f *Form) AddFile(file FormFile) *Form {
	f.files = append(f.files, file)

	return f
}

// Value returns the first value set for name.
func (f *Form) Value(name string) (string, bool) {
	for _, field := range f.fields {
		if field.name == name {
			return field.value, true
		}
	}

	return "", false
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (f *Form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if f != nil {
		for _, field := range f.fields {
			if err := writer.WriteField(field.name, field.value); err != nil {
				return nil, "", errors.Wrapf(err, "write form field %q", field.name)
			}
		}

		for _, file := range f.files {
			part, err := writer.CreatePart(fileHeader(file))
			if err != nil {
				return nil, "", errors.Wrapf(err, "create form file %q", file.Field)
			}
			if file.Content == nil {
				continue
			}
			if _, err := io.Copy(part, file.Content); err != nil {
				return nil, "", errors.Wrapf(err, "copy form file %q", file.Filename)
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", errors.WithStack(err)
	}

	return &buf, writer.FormDataContentType(), nil
}

func fileHeader(file FormFile) textproto.MIMEHeader {
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(file.Field), quoteEscaper.Replace(file.Filename)))
	header.Set("Content-Type", contentType)

	return header
}
