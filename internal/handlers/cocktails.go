package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	applog "stircraft/internal/log"
	"stircraft/internal/metrics"
	"stircraft/internal/recipes"
	"stircraft/internal/views/pages"
	"stircraft/models"
)

// Cocktails serves the catalog and accepts new cocktails.
func Cocktails(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "handling cocktails request", "method", r.Method, "htmx", isHTMX(r))

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		listCocktails(w, r)
	case http.MethodPost:
		saveCocktail(w, r, 0)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// CocktailResource routes /cocktails/new and /cocktails/{id}[/action].
func CocktailResource(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r, "/cocktails")
	if len(segments) == 0 {
		Cocktails(w, r)
		return
	}
	if len(segments) > 2 {
		http.NotFound(w, r)
		return
	}

	if segments[0] == "new" && len(segments) == 1 {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		newCocktailForm(w, r)
		return
	}

	cocktailID, ok := parseID(segments[0])
	if !ok {
		applog.Debug(r.Context(), "invalid cocktail identifier", "identifier", segments[0])
		http.NotFound(w, r)
		return
	}

	action := ""
	if len(segments) == 2 {
		action = segments[1]
	}

	switch {
	case action == "" && (r.Method == http.MethodGet || r.Method == http.MethodHead):
		showCocktail(w, r, cocktailID)
	case action == "edit" && r.Method == http.MethodGet:
		editCocktailForm(w, r, cocktailID)
	case action == "edit" && r.Method == http.MethodPost:
		saveCocktail(w, r, cocktailID)
	case action == "delete" && r.Method == http.MethodPost:
		deleteCocktail(w, r, cocktailID)
	case action == "favorite" && r.Method == http.MethodPost:
		toggleFavorite(w, r, cocktailID)
	case action == "lists" && r.Method == http.MethodPost:
		addCocktailToList(w, r, cocktailID)
	case action == "" || action == "edit" || action == "delete" || action == "favorite" || action == "lists":
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}

func listCocktails(w http.ResponseWriter, r *http.Request) {
	svc, ok := requireService(w)
	if !ok {
		return
	}

	filters := pages.CocktailFiltersFromRequest(r)
	page, err := svc.SearchCocktails(r.Context(), filters)
	if err != nil {
		writeHTTPError(w, r, err)
		return
	}

	view := pages.CocktailListView{Nav: navFor(r, "cocktails"), Page: page}
	if userID, ok := currentUserID(r); ok {
		if view.Favorites, err = favoriteSet(r.Context(), svc, userID); err != nil {
			writeHTTPError(w, r, err)
			return
		}
	}

	if isHTMX(r) && r.Header.Get("HX-Target") == "results" {
		applog.Debug(r.Context(), "rendering cocktail results partial", "total", page.Total)
		renderComponent(w, r, http.StatusOK, pages.CocktailResults(view))
		return
	}

	if view.Ingredients, err = svc.ListIngredients(r.Context(), ""); err != nil {
		writeHTTPError(w, r, err)
		return
	}
	if view.Vessels, err = svc.ListVessels(r.Context()); err != nil {
		writeHTTPError(w, r, err)
		return
	}
	renderComponent(w, r, http.StatusOK, pages.CocktailList(view))
}

func favoriteSet(ctx context.Context, svc *recipes.Service, userID uint) (map[uint]bool, error) {
	favorites, _, err := svc.EnsureSystemLists(ctx, userID)
	if err != nil {
		return nil, err
	}
	cocktails, err := svc.ListCocktails(ctx, favorites.ID)
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(cocktails))
	for _, cocktail := range cocktails {
		set[cocktail.ID] = true
	}
	return set, nil
}

func showCocktail(w http.ResponseWriter, r *http.Request, cocktailID uint) {
	svc, ok := requireService(w)
	if !ok {
		return
	}

	cocktail, err := svc.GetCocktail(r.Context(), cocktailID)
	if err != nil {
		writeHTTPError(w, r, err)
		return
	}

	view := pages.CocktailDetailView{Nav: navFor(r, "cocktails"), Cocktail: cocktail}
	if userID, ok := currentUserID(r); ok && ActiveSession(r) {
		view.SignedIn = true
		view.CanEdit = recipes.RequireOwner(userID, *cocktail) == nil
		if view.Favorited, err = svc.IsFavorite(r.Context(), userID, cocktailID); err != nil {
			writeHTTPError(w, r, err)
			return
		}
		lists, err := svc.UserLists(r.Context(), userID)
		if err != nil {
			writeHTTPError(w, r, err)
			return
		}
		for _, summary := range lists {
			if summary.List.Kind != models.ListCreations {
				view.Lists = append(view.Lists, summary)
			}
		}
		containing, err := svc.ListsContaining(r.Context(), userID, cocktailID)
		if err != nil {
			writeHTTPError(w, r, err)
			return
		}
		view.InList = make(map[uint]bool, len(containing))
		for _, id := range containing {
			view.InList[id] = true
		}
	}

	renderComponent(w, r, http.StatusOK, pages.CocktailDetail(view))
}

func newCocktailForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	svc, ok := requireService(w)
	if !ok {
		return
	}
	renderCocktailForm(w, r, svc, http.StatusOK, pages.CocktailFormView{
		Rows: pages.FormRows(nil, pages.DefaultBlankRows),
	})
}

func editCocktailForm(w http.ResponseWriter, r *http.Request, cocktailID uint) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	svc, ok := requireService(w)
	if !ok {
		return
	}

	cocktail, err := svc.GetCocktail(r.Context(), cocktailID)
	if err != nil {
		writeHTTPError(w, r, err)
		return
	}
	if err := recipes.RequireOwner(userID, *cocktail); err != nil {
		applog.Debug(r.Context(), "edit form requested by non-creator", "cocktailID", cocktailID, "userID", userID)
		writeHTTPError(w, r, err)
		return
	}

	alcoholic := cocktail.IsAlcoholic
	input := recipes.CocktailInput{
		Name:         cocktail.Name,
		Description:  cocktail.Description,
		Instructions: cocktail.Instructions,
		IsAlcoholic:  &alcoholic,
		Color:        string(cocktail.Color),
		ImageURL:     cocktail.ImageURL,
		Tags:         cocktail.TagLabels(),
	}
	if cocktail.VesselID != nil {
		input.VesselID = *cocktail.VesselID
	}

	rows := recipes.RowsFromComponents(cocktail.OrderedComponents())
	renderCocktailForm(w, r, svc, http.StatusOK, pages.CocktailFormView{
		CocktailID: cocktail.ID,
		Input:      input,
		Rows:       pages.FormRows(rows, pages.DefaultBlankRows),
	})
}

func saveCocktail(w http.ResponseWriter, r *http.Request, cocktailID uint) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	svc, ok := requireService(w)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		applog.Debug(r.Context(), "failed to parse cocktail form", "error", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	input := cocktailInputFromForm(r.PostForm)
	rows := componentRowsFromForm(r.PostForm)
	applog.Debug(r.Context(), "cocktail form parsed", "cocktailID", cocktailID, "rows", len(rows))

	operation := "update"
	if cocktailID == 0 {
		operation = "create"
	}

	cocktail, err := svc.SaveCocktail(r.Context(), userID, cocktailID, input, rows)
	metrics.CocktailWrites.WithLabelValues(operation, resultLabel(err)).Inc()
	if err != nil {
		if verr, ok := recipes.AsValidation(err); ok {
			applog.Debug(r.Context(), "cocktail form rejected", "fields", len(verr.Fields))
			renderCocktailForm(w, r, svc, http.StatusUnprocessableEntity, pages.CocktailFormView{
				CocktailID: cocktailID,
				Input:      input,
				Rows:       pages.FormRows(rows, 0),
				Errors:     verr.Fields,
			})
			return
		}
		writeHTTPError(w, r, err)
		return
	}

	applog.Info(r.Context(), "cocktail saved", "operation", operation, "cocktailID", cocktail.ID, "userID", userID)
	redirectTo(w, r, fmt.Sprintf("/cocktails/%d", cocktail.ID))
}

func renderCocktailForm(w http.ResponseWriter, r *http.Request, svc *recipes.Service, status int, view pages.CocktailFormView) {
	var err error
	if view.Ingredients, err = svc.ListIngredients(r.Context(), ""); err != nil {
		writeHTTPError(w, r, err)
		return
	}
	if view.Vessels, err = svc.ListVessels(r.Context()); err != nil {
		writeHTTPError(w, r, err)
		return
	}
	view.Nav = navFor(r, "new")
	if isHTMX(r) {
		renderComponent(w, r, status, pages.CocktailFormPartial(view))
		return
	}
	renderComponent(w, r, status, pages.CocktailForm(view))
}

func cocktailInputFromForm(form url.Values) recipes.CocktailInput {
	input := recipes.CocktailInput{
		Name:         form.Get("name"),
		Description:  form.Get("description"),
		Instructions: form.Get("instructions"),
		IsAlcoholic:  pages.ParseChoice(form.Get("is_alcoholic")),
		Color:        form.Get("color"),
		ImageURL:     form.Get("image_url"),
		Tags:         recipes.ParseTags(form.Get("tags")),
	}
	if vesselID, ok := parseID(form.Get("vessel")); ok {
		input.VesselID = vesselID
	}
	return input
}

// componentRowsFromForm zips the parallel component_* arrays into rows. Rows
// whose key appears in component_remove are flagged for removal.
func componentRowsFromForm(form url.Values) []recipes.ComponentRow {
	keys := form["component_row_key"]
	entries := form["component_entry_id"]
	ingredients := form["component_ingredient"]
	amounts := form["component_amount"]
	units := form["component_unit"]
	notes := form["component_note"]
	orders := form["component_order"]

	removed := make(map[string]bool, len(form["component_remove"]))
	for _, key := range form["component_remove"] {
		if key = strings.TrimSpace(key); key != "" {
			removed[key] = true
		}
	}

	count := max(len(keys), len(ingredients), len(amounts), len(units), len(notes), len(orders))
	rows := make([]recipes.ComponentRow, 0, count)
	for i := 0; i < count; i++ {
		row := recipes.ComponentRow{
			RowKey:     valueAt(keys, i),
			EntryID:    valueAt(entries, i),
			Ingredient: valueAt(ingredients, i),
			Amount:     valueAt(amounts, i),
			Unit:       valueAt(units, i),
			Note:       valueAt(notes, i),
			Order:      valueAt(orders, i),
		}
		row.Remove = row.RowKey != "" && removed[row.RowKey]
		rows = append(rows, row)
	}
	return rows
}

func valueAt(values []string, index int) string {
	if index < len(values) {
		return values[index]
	}
	return ""
}

func deleteCocktail(w http.ResponseWriter, r *http.Request, cocktailID uint) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	svc, ok := requireService(w)
	if !ok {
		return
	}

	err := svc.DeleteCocktail(r.Context(), userID, cocktailID)
	metrics.CocktailWrites.WithLabelValues("delete", resultLabel(err)).Inc()
	if err != nil {
		writeHTTPError(w, r, err)
		return
	}
	applog.Info(r.Context(), "cocktail deleted", "cocktailID", cocktailID, "userID", userID)
	redirectTo(w, r, "/cocktails")
}

type favoriteResponse struct {
	Favorited bool `json:"favorited"`
}

func toggleFavorite(w http.ResponseWriter, r *http.Request, cocktailID uint) {
	userID, ok := requireUserJSON(w, r)
	if !ok {
		return
	}
	svc, ok := requireService(w)
	if !ok {
		return
	}

	favorited, err := svc.ToggleFavorite(r.Context(), userID, cocktailID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	state := "off"
	if favorited {
		state = "on"
	}
	metrics.FavoriteToggles.WithLabelValues(state).Inc()
	writeJSON(w, http.StatusOK, favoriteResponse{Favorited: favorited})
}

type addToListRequest struct {
	ListID uint `json:"list_id"`
}

type addToListResponse struct {
	ListID     uint `json:"list_id"`
	CocktailID uint `json:"cocktail_id"`
	Added      bool `json:"added"`
}

func addCocktailToList(w http.ResponseWriter, r *http.Request, cocktailID uint) {
	userID, ok := requireUserJSON(w, r)
	if !ok {
		return
	}
	svc, ok := requireService(w)
	if !ok {
		return
	}

	var req addToListRequest
	if wantsJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid form submission")
			return
		}
		req.ListID, _ = parseID(r.PostFormValue("list_id"))
	}
	if req.ListID == 0 {
		writeJSON(w, http.StatusBadRequest, validationResponse{
			Error:  "validation failed",
			Fields: map[string]string{"list_id": "choose a list"},
		})
		return
	}

	if err := svc.AddToList(r.Context(), userID, req.ListID, cocktailID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, addToListResponse{ListID: req.ListID, CocktailID: cocktailID, Added: true})
}
