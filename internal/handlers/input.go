package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/vanotis720/SampleTaskAPI/internal/validation"

	"github.com/gin-gonic/gin"
)

var errPayloadTooLarge = errors.New("request payload too large")

// readInput decodes a JSON, urlencoded or multipart body into a normalized
// validation input. Multipart parts beyond the engine's MaxMultipartMemory
// are buffered on disk. A malformed body decodes to an empty input so that the
// rules report the missing fields.
func readInput(c *gin.Context, maxBytes int64) (validation.Input, error) {
	if maxBytes > 0 && c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	}

	raw := map[string]interface{}{}

	switch c.ContentType() {
	case gin.MIMEMultipartPOSTForm:
		form, err := c.MultipartForm()
		if err != nil {
			if err = bodyError(err); errors.Is(err, errPayloadTooLarge) {
				return nil, err
			}
			break
		}
		collectForm(raw, form.Value)
		collectFiles(raw, form.File)
	case gin.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return nil, bodyError(err)
		}
		collectForm(raw, c.Request.PostForm)
	default:
		if c.Request.Body == nil {
			break
		}
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, bodyError(err)
		}
		if len(strings.TrimSpace(string(body))) > 0 {
			if err := json.Unmarshal(body, &raw); err != nil {
				raw = map[string]interface{}{}
			}
		}
	}

	return validation.Normalize(raw), nil
}

func collectForm(raw map[string]interface{}, values map[string][]string) {
	for key, v := range values {
		if len(v) > 0 {
			raw[key] = v[0]
		}
	}
}

func collectFiles(raw map[string]interface{}, files map[string][]*multipart.FileHeader) {
	for key, f := range files {
		if len(f) > 0 {
			raw[key] = f[0]
		}
	}
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errPayloadTooLarge
	}
	return err
}
