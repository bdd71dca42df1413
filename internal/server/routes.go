package server

import (
	"net/http"

	"homewise/internal/handler"
	"homewise/internal/middleware"
)

// Routes assembles the API surface. Everything under /api and the chat socket
// require a valid bearer token; /healthz stays open for probes.
func Routes(h *handler.Handler, jwtSecret string) http.Handler {
	api := http.NewServeMux()

	api.HandleFunc("POST /api/diagnose", h.Diagnose)

	api.HandleFunc("GET /api/diagnoses", h.ListDiagnoses)
	api.HandleFunc("POST /api/diagnoses", h.SaveDiagnosis)
	api.HandleFunc("GET /api/diagnoses/{id}", h.GetDiagnosis)
	api.HandleFunc("DELETE /api/diagnoses/{id}", h.DeleteDiagnosis)
	api.HandleFunc("POST /api/diagnoses/{id}/shopping-list", h.SeedShoppingList)
	api.HandleFunc("DELETE /api/diagnoses/{id}/shopping-list", h.ClearIssueShoppingItems)

	api.HandleFunc("GET /api/shopping-list", h.ListShoppingItems)
	api.HandleFunc("POST /api/shopping-list", h.AddShoppingItem)
	api.HandleFunc("PATCH /api/shopping-list/{id}", h.UpdateShoppingItem)
	api.HandleFunc("DELETE /api/shopping-list/{id}", h.DeleteShoppingItem)

	api.HandleFunc("GET /api/maintenance", h.ListTasks)
	api.HandleFunc("POST /api/maintenance", h.CreateTask)
	api.HandleFunc("GET /api/maintenance/{id}", h.GetTask)
	api.HandleFunc("PATCH /api/maintenance/{id}", h.UpdateTask)
	api.HandleFunc("POST /api/maintenance/{id}/complete", h.CompleteTask)
	api.HandleFunc("DELETE /api/maintenance/{id}", h.DeleteTask)

	api.HandleFunc("POST /api/photos", h.UploadPhoto)
	api.HandleFunc("GET /api/photos/{ref}", h.GetPhoto)
	api.HandleFunc("DELETE /api/photos/{ref}", h.DeletePhoto)

	api.HandleFunc("GET /api/chat", h.HandleChatWS)

	auth := middleware.Auth(jwtSecret)

	root := http.NewServeMux()
	root.Handle("/api/", auth(api))
	root.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return middleware.CORS(root)
}
