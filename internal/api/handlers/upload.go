package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/nikhilbhutani/braillevoice/internal/assist"
	"github.com/nikhilbhutani/braillevoice/internal/models"
)

const formField = "image"

// Processor runs an upload through the whole pipeline.
type Processor interface {
	Process(ctx context.Context, up assist.Upload) (*models.Result, error)
}

var errTooLarge = errors.New("request body too large")

// readUpload extracts the image part of a multipart request. A missing part
// yields an empty Upload so the service reports it. The returned cleanup
// must always be called.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (assist.Upload, func(), error) {
	noop := func() {}
	if r.ContentLength > maxBytes {
		return assist.Upload{}, noop, errTooLarge
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile(formField)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return assist.Upload{}, noop, errTooLarge
		}
		return assist.Upload{}, noop, nil
	}
	cleanup := func() {
		file.Close()
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
	}
	return uploadFrom(file, header), cleanup, nil
}

func uploadFrom(file multipart.File, header *multipart.FileHeader) assist.Upload {
	return assist.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        file,
	}
}
