package handlers

import "net/http"

// Home sends visitors to the cocktail catalog.
func Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/cocktails", http.StatusFound)
}
