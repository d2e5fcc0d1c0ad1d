package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	applog "stircraft/internal/log"
	"stircraft/internal/recipes"
	"stircraft/internal/views/pages"
)

// Lists shows the signed-in user's lists and creates new ones.
func Lists(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "handling lists request", "method", r.Method)

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		listsIndex(w, r)
	case http.MethodPost:
		createList(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ListResource routes /lists/{id}[/edit|/delete|/remove].
func ListResource(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r, "/lists")
	if len(segments) == 0 {
		Lists(w, r)
		return
	}
	if len(segments) > 2 {
		http.NotFound(w, r)
		return
	}
	listID, ok := parseID(segments[0])
	if !ok {
		applog.Debug(r.Context(), "invalid list identifier", "identifier", segments[0])
		http.NotFound(w, r)
		return
	}

	action := ""
	if len(segments) == 2 {
		action = segments[1]
	}

	switch action {
	case "":
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		showList(w, r, listID)
	case "edit", "delete", "remove":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		switch action {
		case "edit":
			updateList(w, r, listID)
		case "delete":
			deleteList(w, r, listID)
		default:
			removeFromList(w, r, listID)
		}
	default:
		http.NotFound(w, r)
	}
}

func listsIndex(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	renderListsIndex(w, r, userID, http.StatusOK, pages.ListsIndexView{
		Message: sessionManager.PopString(r.Context(), sessionFlashKey),
	})
}

func renderListsIndex(w http.ResponseWriter, r *http.Request, userID uint, status int, view pages.ListsIndexView) {
	svc, ok := requireService(w)
	if !ok {
		return
	}
	lists, err := svc.UserLists(r.Context(), userID)
	if err != nil {
		writeHTTPError(w, r, err)
		return
	}
	view.Nav = navFor(r, "lists")
	view.Lists = lists
	renderComponent(w, r, status, pages.ListsIndex(view))
}

func listInputFromForm(form url.Values) recipes.ListInput {
	return recipes.ListInput{
		Name:        form.Get("name"),
		Description: form.Get("description"),
		IsPublic:    checked(form, "is_public"),
	}
}

func checked(form url.Values, name string) bool {
	choice := pages.ParseChoice(form.Get(name))
	return choice != nil && *choice
}

func createList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	svc, ok := requireService(w)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	input := listInputFromForm(r.PostForm)
	list, err := svc.CreateList(r.Context(), userID, input)
	if err != nil {
		if verr, ok := recipes.AsValidation(err); ok {
			renderListsIndex(w, r, userID, http.StatusUnprocessableEntity, pages.ListsIndexView{Input: input, Errors: verr.Fields})
			return
		}
		writeHTTPError(w, r, err)
		return
	}
	applog.Info(r.Context(), "list created", "listID", list.ID, "userID", userID)
	redirectTo(w, r, fmt.Sprintf("/lists/%d", list.ID))
}

func showList(w http.ResponseWriter, r *http.Request, listID uint) {
	viewerID, _ := currentUserID(r)
	renderListDetail(w, r, viewerID, listID, http.StatusOK, nil, nil)
}

// renderListDetail loads the list as seen by viewerID. A nil input shows the
// stored values in the edit form.
func renderListDetail(w http.ResponseWriter, r *http.Request, viewerID, listID uint, status int, input *recipes.ListInput, errs map[string]string) {
	svc, ok := requireService(w)
	if !ok {
		return
	}
	list, err := svc.GetList(r.Context(), viewerID, listID)
	if err != nil {
		writeHTTPError(w, r, err)
		return
	}
	cocktails, err := svc.ListCocktails(r.Context(), listID)
	if err != nil {
		writeHTTPError(w, r, err)
		return
	}

	view := pages.ListDetailView{
		Nav:       navFor(r, "lists"),
		List:      list,
		Cocktails: cocktails,
		IsOwner:   viewerID != 0 && recipes.RequireOwner(viewerID, *list) == nil,
		Errors:    errs,
	}
	if input != nil {
		view.Input = *input
	} else {
		view.Input = recipes.ListInput{Name: list.Name, Description: list.Description, IsPublic: list.IsPublic}
	}
	renderComponent(w, r, status, pages.ListDetail(view))
}

func updateList(w http.ResponseWriter, r *http.Request, listID uint) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	svc, ok := requireService(w)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	input := listInputFromForm(r.PostForm)
	if _, err := svc.UpdateList(r.Context(), userID, listID, input); err != nil {
		if verr, ok := recipes.AsValidation(err); ok {
			renderListDetail(w, r, userID, listID, http.StatusUnprocessableEntity, &input, verr.Fields)
			return
		}
		applog.Debug(r.Context(), "list update rejected", "listID", listID, "error", err)
		writeHTTPError(w, r, err)
		return
	}
	redirectTo(w, r, fmt.Sprintf("/lists/%d", listID))
}

func deleteList(w http.ResponseWriter, r *http.Request, listID uint) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	svc, ok := requireService(w)
	if !ok {
		return
	}
	if err := svc.DeleteList(r.Context(), userID, listID); err != nil {
		applog.Debug(r.Context(), "list delete rejected", "listID", listID, "error", err)
		writeHTTPError(w, r, err)
		return
	}
	sessionManager.Put(r.Context(), sessionFlashKey, "List deleted.")
	redirectTo(w, r, "/lists")
}

func removeFromList(w http.ResponseWriter, r *http.Request, listID uint) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	svc, ok := requireService(w)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	cocktailID, ok := parseID(r.PostFormValue("cocktail_id"))
	if !ok {
		http.Error(w, "cocktail_id is required", http.StatusBadRequest)
		return
	}
	if err := svc.RemoveFromList(r.Context(), userID, listID, cocktailID); err != nil {
		writeHTTPError(w, r, err)
		return
	}
	redirectTo(w, r, fmt.Sprintf("/lists/%d", listID))
}
