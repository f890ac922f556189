package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path"

	"github.com/viant/detect/schema"
)

// MaxUploadSize is the largest image the backend accepts
const MaxUploadSize = 20 << 20

var allowedMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Upload reads an image from URL and sends it as multipart field "file".
// Only jpg and png images up to 20MiB are sent; anything else is rejected
// locally with the same reason the backend would give. The size is checked
// before the image is read.
func (c *Client) Upload(ctx context.Context, URL string) (*schema.Upload, error) {
	object, err := c.fs.Object(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to locate %v: %w", URL, err)
	}
	if object.IsDir() {
		return nil, fmt.Errorf("failed to read %v: is a directory", URL)
	}
	if object.Size() > MaxUploadSize {
		return nil, &schema.APIError{Status: http.StatusRequestEntityTooLarge, Detail: "file too large"}
	}
	data, err := c.fs.Download(ctx, object)
	if err != nil {
		return nil, fmt.Errorf("failed to read %v: %w", URL, err)
	}
	mediaType := http.DetectContentType(data)
	if !allowedMediaTypes[mediaType] {
		return nil, &schema.APIError{Status: http.StatusUnsupportedMediaType, Detail: "only jpg/png"}
	}
	body, contentType, err := multipartImage(path.Base(URL), mediaType, data)
	if err != nil {
		return nil, err
	}
	return send[schema.Upload](ctx, c, http.MethodPost, "/api/detect/upload", body, contentType)
}

func multipartImage(filename, mediaType string, data []byte) ([]byte, string, error) {
	buffer := &bytes.Buffer{}
	writer := multipart.NewWriter(buffer)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", mediaType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err = part.Write(data); err != nil {
		return nil, "", err
	}
	if err = writer.Close(); err != nil {
		return nil, "", err
	}
	return buffer.Bytes(), writer.FormDataContentType(), nil
}
