package session

const (
	RouteLogin     = "/"
	RouteDashboard = "/dashboard"
	RouteOrders    = "/orders"
	RouteTerms     = "/terms"
)

// Resolve applies the navigation rules for path. redirect is empty when the
// view may be shown as is.
func Resolve(path string, authenticated bool) (view, redirect string) {
	switch path {
	case RouteLogin, "":
		if authenticated {
			return "", RouteDashboard
		}
		return "login", ""
	case RouteDashboard, RouteOrders:
		if !authenticated {
			return "", RouteLogin
		}
		return path[1:], ""
	case RouteTerms:
		return "terms", ""
	default:
		return "", RouteLogin
	}
}
