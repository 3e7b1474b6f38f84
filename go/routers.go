package cartserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions bundles the API groups served by the router.
type ApiHandleFunctions struct {
	CartAPI CartAPI
}

// SessionOptions configures the session cookie.
type SessionOptions struct {
	CookieName   string
	CookieSecure bool
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, opts SessionOptions) *gin.Engine {
	return NewRouterWithGinEngine(gin.New(), handleFunctions, opts)
}

// NewRouterWithGinEngine adds the routes to an existing engine. Every /api route
// runs behind the session cookie middleware.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, opts SessionOptions) *gin.Engine {
	router.Use(gin.Recovery())
	router.GET("/healthz", Healthz)

	api := router.Group("/api", SessionMiddleware(opts.CookieName, opts.CookieSecure))
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		api.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Healthz reports liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"GetCart", http.MethodGet, "/cart", handleFunctions.CartAPI.GetCart},
		{"GetItemCount", http.MethodGet, "/cart/count", handleFunctions.CartAPI.GetItemCount},
		{"AddItem", http.MethodPost, "/cart/add", handleFunctions.CartAPI.AddItem},
		{"UpdateQuantity", http.MethodPost, "/cart/update", handleFunctions.CartAPI.UpdateQuantity},
		{"RemoveItem", http.MethodPost, "/cart/remove", handleFunctions.CartAPI.RemoveItem},
		{"AdjustQuantity", http.MethodPost, "/cart/adjust", handleFunctions.CartAPI.AdjustQuantity},
		{"OpenCart", http.MethodPost, "/cart/open", handleFunctions.CartAPI.OpenCart},
		{"CloseCart", http.MethodPost, "/cart/close", handleFunctions.CartAPI.CloseCart},
		{"EndSession", http.MethodDelete, "/cart/session", handleFunctions.CartAPI.EndSession},
	}
}
