// Package router gom route của các domain dưới /api/v1.
//
// Middleware của từng route được truyền thành một chain cùng handler qua RegisterRouteWithMiddleware,
// không dùng group.Use vì middleware của group lan sang mọi route cùng prefix.
package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mostafa12599/GreenFuture-Innovation/internal/api/middleware"
)

// RoutePrefix chứa các prefix cơ bản cho API
type RoutePrefix struct {
	Base string // /api
	V1   string // /api/v1
}

// NewRoutePrefix tạo RoutePrefix với giá trị mặc định
func NewRoutePrefix() RoutePrefix {
	base := "/api"
	return RoutePrefix{
		Base: base,
		V1:   base + "/v1",
	}
}

// Router giữ app và AuthGate để domain router tạo middleware xác thực
type Router struct {
	app  *fiber.App
	gate *middleware.AuthGate
}

// NewRouter tạo Router
func NewRouter(app *fiber.App, gate *middleware.AuthGate) *Router {
	return &Router{app: app, gate: gate}
}

// Auth trả về AuthMiddleware cho action; action rỗng là chỉ cần đăng nhập
func (r *Router) Auth(action string) fiber.Handler {
	return r.gate.AuthMiddleware(action)
}

// RegisterRouteWithMiddleware đăng ký route với chain middleware -> handler cho đúng một method + path.
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	chain := make([]any, 0, len(middlewares)+1)
	for _, mw := range middlewares {
		chain = append(chain, mw)
	}
	chain = append(chain, handler)
	router.Add([]string{method}, prefix+path, chain[0], chain[1:]...)
}

// Route là một dòng trong bảng route của domain
type Route struct {
	Method  string
	Path    string
	Action  string // action của policy; "" là chỉ cần đăng nhập
	Public  bool   // true thì không qua AuthMiddleware
	Handler fiber.Handler
}

// RegisterRoutes đăng ký bảng route dưới prefix
func (r *Router) RegisterRoutes(v1 fiber.Router, prefix string, routes []Route) {
	for _, rt := range routes {
		var mws []fiber.Handler
		if !rt.Public {
			mws = append(mws, r.Auth(rt.Action))
		}
		RegisterRouteWithMiddleware(v1, prefix, rt.Method, rt.Path, mws, rt.Handler)
	}
}

// RegisterFunc là hàm đăng ký route của một domain (do domain/router export)
type RegisterFunc func(v1 fiber.Router, r *Router) error

// SetupRoutes thiết lập tất cả các route. Caller truyền Register của từng domain để tránh import cycle.
func SetupRoutes(app *fiber.App, gate *middleware.AuthGate, regs ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	v1 := app.Group(prefix.V1)
	r := NewRouter(app, gate)
	for _, reg := range regs {
		if err := reg(v1, r); err != nil {
			return err
		}
	}
	return nil
}
