package handler

import (
	"io"
	"mime/multipart"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sumire/market/internal/domain"
	"github.com/sumire/market/internal/service"
)

const imageField = "image"

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}

// readImages reads the files posted under the image field. Files larger
// than the upload limit are rejected without being read in full.
func readImages(c echo.Context) ([]service.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, domain.Errorf(domain.ErrInvalidInput, "Invalid multipart form.")
	}
	return readFileHeaders(form.File[imageField])
}

func readFileHeaders(headers []*multipart.FileHeader) ([]service.Upload, error) {
	uploads := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > service.MaxUploadBytes {
			return nil, domain.ErrPayloadTooLarge
		}
		data, err := readAllLimit(fh, service.MaxUploadBytes)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, service.Upload{Filename: fh.Filename, Data: data})
	}
	return uploads, nil
}

func readAllLimit(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, domain.Errorf(domain.ErrInvalidInput, "Cannot open uploaded file.")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, domain.Errorf(domain.ErrInvalidInput, "Cannot read uploaded file.")
	}
	if int64(len(data)) > limit {
		return nil, domain.ErrPayloadTooLarge
	}
	return data, nil
}

func optionalString(c echo.Context, name string) *string {
	if !formHas(c, name) {
		return nil
	}
	v := c.FormValue(name)
	return &v
}

func optionalFloat(c echo.Context, name string) (*float64, error) {
	if !formHas(c, name) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(c.FormValue(name), 64)
	if err != nil {
		return nil, &domain.ValidationError{Field: name, Message: "must be a number"}
	}
	return &v, nil
}

func formHas(c echo.Context, name string) bool {
	params, err := c.FormParams()
	if err != nil {
		return false
	}
	_, ok := params[name]
	return ok
}
