package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"

	"github.com/labstack/echo/v4"
)

// bindStrict decodes a JSON body without coercion: unknown fields, trailing
// data and values of the wrong JSON type (e.g. "true" for a boolean) are
// rejected.
func bindStrict(c echo.Context, v any) error {
	req := c.Request()
	mt, _, _ := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType))
	if mt != echo.MIMEApplicationJSON {
		return errors.New("content type must be application/json")
	}
	if req.Body == nil {
		return errors.New("empty body")
	}
	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}
