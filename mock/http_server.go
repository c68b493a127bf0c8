package mock

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	"go.uber.org/zap"

	"github.com/dynohub/addons"
	kiterrors "github.com/dynohub/addons/kit/errors"
	"github.com/dynohub/addons/pkg/api"
)

type handler struct {
	log *zap.Logger
	svc *Service
	api *api.API

	store *Store
}

// NewHandler mounts the mock platform's route table: add-on resources,
// attachments, config vars, and releases, all behind the credential
// middleware.
func NewHandler(log *zap.Logger, svc *Service, store *Store) http.Handler {
	h := &handler{
		log:   log,
		svc:   svc,
		api:   api.New(api.WithLog(log)),
		store: store,
	}

	r := chi.NewRouter()
	r.Use(authenticator(store, h.api))
	r.NotFound(h.handleNotFound)

	r.Route("/resources", func(r chi.Router) {
		r.Get("/", h.handleGetResources)
		r.Post("/", h.handlePostResource)
		r.Get("/{resource}", h.handleGetResource)
		r.Put("/{resource}", h.handlePutResource)
		r.Delete("/{resource}", h.handleDeleteResource)
	})

	r.Route("/addon-attachments", func(r chi.Router) {
		r.Get("/", h.handleGetAttachments)
		r.Post("/", h.handlePostAttachment)
		r.Delete("/{id}", h.handleDeleteAttachmentByID)
	})

	r.Route("/apps/{app}", func(r chi.Router) {
		r.Get("/addons", h.handleGetAppAddons)
		r.Post("/addons", h.handlePostAppAddon)
		r.Delete("/addons/{addon}", h.handleDeleteResource)
		r.Get("/addon-attachments", h.handleGetAppAttachments)
		r.Delete("/addon-attachments/{attachment}", h.handleDeleteAttachment)
		r.Get("/config-vars", h.handleGetConfigVars)
		r.Get("/releases", h.handleGetReleases)
	})

	r.Delete("/tenant", h.handleResetTenant)

	return r
}

func (h *handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.api.Err(w, &kiterrors.Error{
		Code: kiterrors.ENotFound,
		Msg:  "route not found: " + r.Method + " " + r.URL.Path,
	})
}

type provisionRequest struct {
	App        string `json:"app,omitempty"`
	Addon      string `json:"addon"`
	Name       string `json:"name,omitempty"`
	Attachment string `json:"attachment,omitempty"`
	Force      bool   `json:"force,omitempty"`
}

func (p provisionRequest) OK() error {
	if p.Addon == "" {
		return errors.New("addon is required")
	}
	return nil
}

// handlePostResource is the HTTP handler for the POST /resources route.
func (h *handler) handlePostResource(w http.ResponseWriter, r *http.Request) {
	var req provisionRequest
	if err := h.api.DecodeJSON(r.Body, &req); err != nil {
		h.api.Err(w, err)
		return
	}
	if req.App == "" {
		h.api.Err(w, ErrAppRequired)
		return
	}

	res, err := h.svc.CreateResource(BundleFromContext(r.Context()), CreateResourceRequest{
		App:        req.App,
		Addon:      req.Addon,
		Name:       req.Name,
		Attachment: req.Attachment,
		Force:      req.Force,
	})
	if err != nil {
		h.api.Err(w, err)
		return
	}

	h.api.Respond(w, http.StatusCreated, res)
}

// handlePostAppAddon is the HTTP handler for the POST /apps/{app}/addons
// route. Same shape as POST /resources with the app taken from the path.
func (h *handler) handlePostAppAddon(w http.ResponseWriter, r *http.Request) {
	var req provisionRequest
	if err := h.api.DecodeJSON(r.Body, &req); err != nil {
		h.api.Err(w, err)
		return
	}

	res, err := h.svc.CreateResource(BundleFromContext(r.Context()), CreateResourceRequest{
		App:        chi.URLParam(r, "app"),
		Addon:      req.Addon,
		Name:       req.Name,
		Attachment: req.Attachment,
		Force:      req.Force,
	})
	if err != nil {
		h.api.Err(w, err)
		return
	}

	h.api.Respond(w, http.StatusCreated, res)
}

func (h *handler) handleGetResources(w http.ResponseWriter, r *http.Request) {
	h.api.Respond(w, http.StatusOK, h.svc.Resources(BundleFromContext(r.Context())))
}

func (h *handler) handleGetResource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "resource")
	res := h.svc.FindResource(BundleFromContext(r.Context()), addons.ResourceFilter{Name: &name})
	if res == nil {
		h.api.Err(w, ErrResourceNotFound(name))
		return
	}
	h.api.Respond(w, http.StatusOK, res)
}

type planChangeRequest struct {
	Plan string `json:"plan"`
}

func (p planChangeRequest) OK() error {
	if p.Plan == "" {
		return errors.New("plan is required")
	}
	return nil
}

// handlePutResource is the HTTP handler for the PUT /resources/{resource}
// route, used by plan upgrades and downgrades.
func (h *handler) handlePutResource(w http.ResponseWriter, r *http.Request) {
	var req planChangeRequest
	if err := h.api.DecodeJSON(r.Body, &req); err != nil {
		h.api.Err(w, err)
		return
	}

	res, err := h.svc.UpdateResourcePlan(BundleFromContext(r.Context()), chi.URLParam(r, "resource"), req.Plan)
	if err != nil {
		h.api.Err(w, err)
		return
	}
	h.api.Respond(w, http.StatusOK, res)
}

// handleDeleteResource serves both DELETE /resources/{resource} and
// DELETE /apps/{app}/addons/{addon}; the cascade is identical.
func (h *handler) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "resource")
	if name == "" {
		name = chi.URLParam(r, "addon")
	}

	res, err := h.svc.DeleteResource(BundleFromContext(r.Context()), name)
	if err != nil {
		h.api.Err(w, err)
		return
	}
	h.api.Respond(w, http.StatusOK, res)
}

func (h *handler) handleGetAppAddons(w http.ResponseWriter, r *http.Request) {
	h.api.Respond(w, http.StatusOK,
		h.svc.AppAddons(BundleFromContext(r.Context()), chi.URLParam(r, "app")))
}

type attachRequest struct {
	App      string `json:"app"`
	Resource string `json:"resource"`
	Name     string `json:"name,omitempty"`
	Force    bool   `json:"force,omitempty"`
}

func (a attachRequest) OK() error {
	if a.App == "" {
		return errors.New("app is required")
	}
	if a.Resource == "" {
		return errors.New("resource is required")
	}
	return nil
}

// handlePostAttachment is the HTTP handler for the POST /addon-attachments route.
func (h *handler) handlePostAttachment(w http.ResponseWriter, r *http.Request) {
	var req attachRequest
	if err := h.api.DecodeJSON(r.Body, &req); err != nil {
		h.api.Err(w, err)
		return
	}

	at, err := h.svc.CreateAttachment(BundleFromContext(r.Context()), CreateAttachmentRequest{
		App:      req.App,
		Resource: req.Resource,
		Name:     req.Name,
		Force:    req.Force,
	})
	if err != nil {
		h.api.Err(w, err)
		return
	}
	h.api.Respond(w, http.StatusCreated, at)
}

func (h *handler) handleGetAttachments(w http.ResponseWriter, r *http.Request) {
	h.api.Respond(w, http.StatusOK, h.svc.Attachments(BundleFromContext(r.Context())))
}

func (h *handler) handleGetAppAttachments(w http.ResponseWriter, r *http.Request) {
	h.api.Respond(w, http.StatusOK,
		h.svc.AppAttachments(BundleFromContext(r.Context()), chi.URLParam(r, "app")))
}

func (h *handler) handleDeleteAttachmentByID(w http.ResponseWriter, r *http.Request) {
	at, err := h.svc.DeleteAttachmentByID(BundleFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.api.Err(w, err)
		return
	}
	h.api.Respond(w, http.StatusOK, at)
}

func (h *handler) handleDeleteAttachment(w http.ResponseWriter, r *http.Request) {
	at, err := h.svc.DeleteAttachment(BundleFromContext(r.Context()),
		chi.URLParam(r, "app"), chi.URLParam(r, "attachment"))
	if err != nil {
		h.api.Err(w, err)
		return
	}
	h.api.Respond(w, http.StatusOK, at)
}

func (h *handler) handleGetConfigVars(w http.ResponseWriter, r *http.Request) {
	h.api.Respond(w, http.StatusOK,
		h.svc.AppConfigVars(BundleFromContext(r.Context()), chi.URLParam(r, "app")))
}

func (h *handler) handleGetReleases(w http.ResponseWriter, r *http.Request) {
	h.api.Respond(w, http.StatusOK,
		h.svc.AppReleases(BundleFromContext(r.Context()), chi.URLParam(r, "app")))
}

// handleResetTenant wipes the calling tenant's state. Testers use this
// instead of deleting the durable file by hand.
func (h *handler) handleResetTenant(w http.ResponseWriter, r *http.Request) {
	tenant := TenantFromContext(r.Context())
	h.store.Reset(tenant)
	h.log.Info("reset tenant state", zap.String("tenant", tenant))
	h.api.Respond(w, http.StatusNoContent, nil)
}
