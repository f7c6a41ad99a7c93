package handler

import (
	"cloud-drive/internal/model"
	"cloud-drive/internal/security"
	"cloud-drive/internal/util"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"io"
	"net/http"
	"strings"
)

// multipartMemory : parts above this size spill to temporary files
const multipartMemory = 8 << 20

var validate = validator.New()

// decodeJSON : decodes and validates the body, writing 400 on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		util.HandleError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(target); err != nil {
		util.HandleError(w, validationMessage(err), http.StatusBadRequest)
		return false
	}
	return true
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "invalid request body"
	}
	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s failed %q", fieldErr.Field(), fieldErr.Tag()))
	}
	return "invalid request: " + strings.Join(fields, "; ")
}

// currentUser : claims put in the context by security.JWTMiddleware
func currentUser(w http.ResponseWriter, r *http.Request) (*security.Claims, bool) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	return claims, true
}

type upload struct {
	name        string
	contentType string
	data        []byte
}

// readUpload : the "file" part of a multipart body, capped at maxBytes
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (*upload, bool) {
	if r.ContentLength > maxBytes {
		util.HandleError(w, fmt.Sprintf("upload larger than %d bytes", maxBytes), http.StatusRequestEntityTooLarge)
		return nil, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeBodyError(w, err, "invalid multipart body")
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		util.HandleError(w, "file part is missing", http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeBodyError(w, err, "failed to read file")
		return nil, false
	}

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}
	return &upload{name: name, contentType: header.Header.Get("Content-Type"), data: data}, true
}

func writeBodyError(w http.ResponseWriter, err error, message string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		util.HandleError(w, fmt.Sprintf("upload larger than %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
		return
	}
	util.HandleError(w, message, http.StatusBadRequest)
}

// listOptions : ?include_deleted=&sort=&order=
func listOptions(r *http.Request) (model.ListOptions, error) {
	query := r.URL.Query()
	opts := model.ListOptions{Sort: model.SortField(query.Get("sort"))}

	switch query.Get("include_deleted") {
	case "", "false", "0":
	case "true", "1":
		opts.IncludeDeleted = true
	default:
		return opts, fmt.Errorf("%w: include_deleted must be true or false", model.ErrValidation)
	}

	switch strings.ToLower(query.Get("order")) {
	case "", "asc":
	case "desc":
		opts.Descending = true
	default:
		return opts, fmt.Errorf("%w: order must be asc or desc", model.ErrValidation)
	}
	return opts, nil
}
