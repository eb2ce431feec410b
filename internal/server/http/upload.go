package http

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/dmitrijs2005/todophotos/internal/common"
	"github.com/dmitrijs2005/todophotos/internal/server/photos"
)

const (
	photoField = "photo"
	textField  = "text"

	// multipart framing and the text field on top of the photo itself
	formOverhead   = 1 << 20
	maxRequestBody = photos.MaxPhotoSize + formOverhead
)

// upload is a photo read from a multipart request.
type upload struct {
	data     []byte
	mimeType string
}

// parseForm reads a multipart or urlencoded body, bounded by
// maxRequestBody.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var err error
	if isMultipart(r) {
		err = r.ParseMultipartForm(maxRequestBody)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: photo exceeds %d bytes", common.ErrValidation, photos.MaxPhotoSize)
	}
	return fmt.Errorf("%w: malformed form body", common.ErrValidation)
}

// readPhoto returns the "photo" file of an already parsed form, or nil when
// the request carries none.
func readPhoto(r *http.Request) (*upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	file, header, err := r.FormFile(photoField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable photo", common.ErrValidation)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, photos.MaxPhotoSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable photo", common.ErrValidation)
	}

	return &upload{data: data, mimeType: contentType(header.Header.Get("Content-Type"), data)}, nil
}

// contentType normalizes the declared part type. A missing or generic
// declaration is replaced by sniffing the bytes.
func contentType(declared string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
		return strings.ToLower(mt)
	}
	mt, _, _ := mime.ParseMediaType(mimetype.Detect(data).String())
	return mt
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}
