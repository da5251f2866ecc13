// Package handler holds the request helpers shared by the HTTP handlers.
package handler

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/ideabox-api/internal/model"
	"github.com/jwalitptl/ideabox-api/pkg/auth"
	"github.com/jwalitptl/ideabox-api/pkg/errors"
)

// Context keys set by the authentication middleware.
const (
	ContextPrincipal = "principal"
	ContextClaims    = "claims"
)

// SetPrincipal records the authenticated principal on the request.
func SetPrincipal(c *gin.Context, p *model.Principal, claims *auth.Claims) {
	c.Set(ContextPrincipal, p)
	c.Set(ContextClaims, claims)
}

// Principal returns the authenticated principal, or nil on public routes.
func Principal(c *gin.Context) *model.Principal {
	if v, ok := c.Get(ContextPrincipal); ok {
		if p, ok := v.(*model.Principal); ok {
			return p
		}
	}
	return nil
}

func Caller(c *gin.Context) model.Caller {
	if p := Principal(c); p != nil {
		return p.Caller()
	}
	return model.Caller{}
}

func Claims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ContextClaims); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// QueryInt parses an integer query parameter; malformed values read as 0
// so that pagination falls back to its defaults.
func QueryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

func PrincipalFilter(c *gin.Context) model.PrincipalFilter {
	department := c.Query("department")
	if !model.IsFilter(department) {
		department = ""
	}
	return model.PrincipalFilter{
		Department: department,
		Search:     c.Query("search"),
		Page:       QueryInt(c, "page"),
		Limit:      QueryInt(c, "limit"),
		SortBy:     c.Query("sortBy"),
		SortOrder:  c.Query("sortOrder"),
	}
}

func IdeaFilter(c *gin.Context) model.IdeaFilter {
	return model.IdeaFilter{
		Status:     c.Query("status"),
		Department: c.Query("department"),
		Priority:   c.Query("priority"),
		Search:     c.Query("search"),
		Page:       QueryInt(c, "page"),
		Limit:      QueryInt(c, "limit"),
		SortBy:     c.Query("sortBy"),
		SortOrder:  c.Query("sortOrder"),
	}
}

var excelExtensions = map[string]bool{".xlsx": true, ".xls": true}

// SaveUpload stores the multipart "file" field under dir with a random name
// and returns its path. The caller owns removing it.
func SaveUpload(c *gin.Context, dir string) (string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return "", errors.NewBadRequest("No file uploaded", err)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !excelExtensions[ext] {
		return "", errors.NewBadRequest("Only Excel files are allowed", nil)
	}

	dst := filepath.Join(dir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", errors.NewInternal(err)
	}
	return dst, nil
}
