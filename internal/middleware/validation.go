package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/ideabox-api/internal/model"
	pkgvalidator "github.com/jwalitptl/ideabox-api/pkg/validator"
)

// RegisterValidators installs the domain binding tags on gin's validator
// and reports fields by their json names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	custom := map[string]validator.Func{
		"mobile":     pkgvalidator.Mobile,
		"role":       pkgvalidator.OneOf(roleNames()...),
		"ideastatus": pkgvalidator.OneOf(statusNames()...),
		"priority":   pkgvalidator.OneOf(priorityNames()...),
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func roleNames() []string {
	out := make([]string, len(model.Roles))
	for i, r := range model.Roles {
		out[i] = string(r)
	}
	return out
}

func statusNames() []string {
	out := make([]string, len(model.IdeaStatuses))
	for i, s := range model.IdeaStatuses {
		out[i] = string(s)
	}
	return out
}

func priorityNames() []string {
	out := make([]string, len(model.Priorities))
	for i, p := range model.Priorities {
		out[i] = string(p)
	}
	return out
}
