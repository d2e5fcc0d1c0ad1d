package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	applog "stircraft/internal/log"
	"stircraft/internal/recipes"
	"stircraft/models"
)

type ingredientResponse struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	AlcoholByVolume float64 `json:"alcohol_by_volume"`
	Source          string  `json:"source"`
}

type quickCreateResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

func newIngredientResponse(ingredient models.Ingredient) ingredientResponse {
	return ingredientResponse{
		ID:              ingredient.ID,
		Name:            ingredient.Name,
		Category:        string(ingredient.Category),
		AlcoholByVolume: ingredient.AlcoholByVolume,
		Source:          ingredient.Source,
	}
}

// IngredientResource serves the JSON ingredient catalog.
func IngredientResource(w http.ResponseWriter, r *http.Request) {
	svc, ok := requireService(w)
	if !ok {
		return
	}

	segments := pathSegments(r, "/api/ingredients")
	if len(segments) == 0 {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		listIngredients(w, r, svc)
		return
	}
	if len(segments) > 1 {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}

	ingredientID, ok := parseID(segments[0])
	if !ok {
		applog.Debug(r.Context(), "invalid ingredient identifier", "identifier", segments[0])
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		showIngredient(w, r, svc, ingredientID)
	case http.MethodDelete:
		deleteIngredient(w, r, svc, ingredientID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listIngredients(w http.ResponseWriter, r *http.Request, svc *recipes.Service) {
	ingredients, err := svc.ListIngredients(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response := make([]ingredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		response = append(response, newIngredientResponse(ingredient))
	}
	writeJSON(w, http.StatusOK, response)
}

func showIngredient(w http.ResponseWriter, r *http.Request, svc *recipes.Service, ingredientID uint) {
	ingredient, err := svc.GetIngredient(r.Context(), ingredientID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newIngredientResponse(*ingredient))
}

func deleteIngredient(w http.ResponseWriter, r *http.Request, svc *recipes.Service, ingredientID uint) {
	userID, ok := requireUserJSON(w, r)
	if !ok {
		return
	}
	staff, err := isStaff(r, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !staff {
		applog.Debug(r.Context(), "ingredient delete by non-staff user", "userID", userID)
		writeJSONError(w, http.StatusForbidden, "staff access required")
		return
	}

	if err := svc.DeleteIngredient(r.Context(), ingredientID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	applog.Info(r.Context(), "ingredient deleted", "ingredientID", ingredientID, "userID", userID)
	w.WriteHeader(http.StatusNoContent)
}

func isStaff(r *http.Request, userID uint) (bool, error) {
	var user models.User
	if err := database.WithContext(r.Context()).Select("id", "is_staff").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load user: %w", err)
	}
	return user.IsStaff, nil
}

// QuickCreateIngredient adds a catalog entry from inside the cocktail form and
// answers with the fields needed to select it.
func QuickCreateIngredient(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireUserJSON(w, r); !ok {
		return
	}
	svc, ok := requireService(w)
	if !ok {
		return
	}

	var input recipes.IngredientInput
	if wantsJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid form submission")
			return
		}
		input.Name = r.PostFormValue("name")
		input.Category = r.PostFormValue("category")
		if raw := strings.TrimSpace(r.PostFormValue("alcohol_by_volume")); raw != "" {
			abv, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, validationResponse{
					Error:  "validation failed",
					Fields: map[string]string{"alcohol_by_volume": "must be a number"},
				})
				return
			}
			input.AlcoholByVolume = abv
		}
	}
	input.Source = models.SourceUser

	ingredient, err := svc.CreateIngredient(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	applog.Info(r.Context(), "ingredient created", "ingredientID", ingredient.ID, "name", ingredient.Name)
	writeJSON(w, http.StatusCreated, quickCreateResponse{
		ID:       ingredient.ID,
		Name:     ingredient.Name,
		Category: string(ingredient.Category),
	})
}
