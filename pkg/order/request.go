package order

import (
	"mime"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/example/buttg/pkg/cart"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

// Proof is the uploaded payment screenshot.
type Proof struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewProof sniffs the content type of data; the browser-supplied type is not
// trusted.
func NewProof(filename string, data []byte) *Proof {
	return &Proof{
		Filename:    filename,
		ContentType: mimetype.Detect(data).String(),
		Data:        data,
	}
}

// Extension returns the file extension used for the emailed attachment,
// preferring the one the customer uploaded.
func (p *Proof) Extension() string {
	if ext := filepath.Ext(p.Filename); ext != "" {
		return strings.ToLower(ext)
	}
	if ext := mimetype.Lookup(p.ContentType); ext != nil && ext.Extension() != "" {
		return ext.Extension()
	}
	if exts, _ := mime.ExtensionsByType(p.ContentType); len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

func (p *Proof) isImage() bool {
	return strings.HasPrefix(p.ContentType, "image/")
}

// Request is one checkout attempt.
type Request struct {
	Name    string    `json:"name" validate:"required"`
	Email   string    `json:"email" validate:"required,email"`
	Phone   string    `json:"phone" validate:"required"`
	Address string    `json:"address" validate:"required"`
	Notes   string    `json:"notes"`
	Cart    cart.Cart `json:"cart" validate:"min=1"`
	// Total is what the client displayed; the service recomputes it.
	Total int64  `json:"total"`
	Proof *Proof `json:"screenshot" validate:"-"`
}

func (r *Request) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Address = strings.TrimSpace(r.Address)
	r.Notes = strings.TrimSpace(r.Notes)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the request without side effects.
func (r *Request) Validate() error {
	r.normalize()

	var fields []FieldError
	if err := validate.Struct(r); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, fe := range verrs {
			fields = append(fields, fieldError(fe))
		}
	}

	switch {
	case r.Proof == nil || len(r.Proof.Data) == 0:
		fields = append(fields, FieldError{Field: "screenshot", Message: "payment screenshot is required"})
	case !r.Proof.isImage():
		fields = append(fields, FieldError{Field: "screenshot", Message: "payment screenshot must be an image"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func fieldError(fe validator.FieldError) FieldError {
	field := fe.Field()
	switch {
	case fe.Tag() == "required":
		return FieldError{Field: field, Message: field + " is required"}
	case fe.Tag() == "email":
		return FieldError{Field: field, Message: field + " is not a valid email address"}
	case field == "cart":
		return FieldError{Field: field, Message: "cart is empty"}
	default:
		return FieldError{Field: field, Message: field + " is invalid"}
	}
}
