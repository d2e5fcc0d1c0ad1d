package server

import (
	"context"
	"net/http"

	"stircraft/internal/handlers"
	applog "stircraft/internal/log"
	"stircraft/internal/metrics"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")

	routes := []struct {
		path    string
		handler http.Handler
	}{
		{"/healthz", http.HandlerFunc(handlers.Health)},
		{"/metrics", metrics.Handler()},
		{"/login", http.HandlerFunc(handlers.Login)},
		{"/signup", http.HandlerFunc(handlers.Signup)},
		{"/logout", http.HandlerFunc(handlers.Logout)},
		{"/cocktails", http.HandlerFunc(handlers.Cocktails)},
		{"/cocktails/", http.HandlerFunc(handlers.CocktailResource)},
		{"/lists", http.HandlerFunc(handlers.Lists)},
		{"/lists/", http.HandlerFunc(handlers.ListResource)},
		{"/api/ingredients", http.HandlerFunc(handlers.IngredientResource)},
		{"/api/ingredients/", http.HandlerFunc(handlers.IngredientResource)},
		{"/ingredients/quick-create", http.HandlerFunc(handlers.QuickCreateIngredient)},
		{"/account/delete", handlers.RequireAuthentication(http.HandlerFunc(handlers.DeleteAccount))},
		{"/", http.HandlerFunc(handlers.Home)},
	}
	for _, route := range routes {
		mux.Handle(route.path, route.handler)
		applog.Debug(context.Background(), "route registered", "path", route.path)
	}
	return mux
}
