package middleware

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/ideabox-api/internal/handler"
	"github.com/jwalitptl/ideabox-api/pkg/errors"
)

// Objects are gin route patterns, so ":id" segments match literally and a
// trailing "*" matches a subtree.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && regexMatch(r.act, p.act)
`

var rbacPolicies = [][]string{
	{"employee", "/api/v1/auth/*", "^(GET|POST)$"},
	{"employee", "/api/v1/ideas", "^(GET|POST)$"},
	{"employee", "/api/v1/ideas/*", "^(GET|PATCH)$"},
	{"employee", "/api/v1/employees", "^GET$"},
	{"employee", "/api/v1/employees/:id", "^GET$"},
	{"employee", "/api/v1/employees/export/excel", "^GET$"},
	{"employee", "/api/v1/users", "^GET$"},
	{"admin", "/api/v1/*", ".*"},
}

// Admins inherit everything reviewers can do, reviewers everything
// employees can do.
var rbacRoles = [][]string{
	{"reviewer", "employee"},
	{"admin", "reviewer"},
}

// NewEnforcer builds the route policy enforcer.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := casbinmodel.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}
	if _, err := e.AddPolicies(rbacPolicies); err != nil {
		return nil, fmt.Errorf("failed to load rbac policies: %w", err)
	}
	if _, err := e.AddGroupingPolicies(rbacRoles); err != nil {
		return nil, fmt.Errorf("failed to load rbac roles: %w", err)
	}
	return e, nil
}

// Authorize checks the authenticated principal's role against the matched
// route. It must run after Authenticate.
func Authorize(e *casbin.Enforcer) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := handler.Principal(c)
		if p == nil {
			abort(c, errors.Unauthorized("Access token required", nil))
			return
		}

		allowed, err := e.Enforce(string(p.Role), c.FullPath(), c.Request.Method)
		if err != nil {
			abort(c, errors.NewInternal(fmt.Errorf("rbac enforce: %w", err)))
			return
		}
		if !allowed {
			abort(c, errors.Forbidden("Access denied. Insufficient permissions."))
			return
		}
		c.Next()
	}
}
