package httppresentation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	appcart "github.com/Zhima-Mochi/minishop-cart/internal/application/cart"
	domcart "github.com/Zhima-Mochi/minishop-cart/internal/domain/cart"
	domcatalog "github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability"
	"github.com/Zhima-Mochi/minishop-cart/internal/observability/logctx"
	"github.com/Zhima-Mochi/minishop-cart/internal/presentation/cartview"
)

const (
	componentHTTPHandler = "http_server"
	defaultCookieName    = "cart_session"
	defaultContinueURL   = "/"
	cartPath             = "/cart"
	maxBodyBytes         = 1 << 20
)

// SessionStore opens the cart of a browser session.
type SessionStore interface {
	Open(ctx context.Context, id string) (*appcart.Store, error)
}

type Dependencies struct {
	Sessions      SessionStore
	Catalog       domcatalog.Repository
	Template      *cartview.Template
	Observability observability.Observability
	// ContinueURL is where continue shopping sends the browser.
	ContinueURL string
	CookieName  string
}

type Handler struct {
	sessions    SessionStore
	catalog     domcatalog.Repository
	tmpl        *cartview.Template
	tel         observability.Observability
	log         observability.Logger
	validate    *validator.Validate
	continueURL string
	cookieName  string
}

func NewHandler(deps Dependencies) *Handler {
	tel := deps.Observability
	if tel == nil {
		tel = observability.Nop()
	}
	tmpl := deps.Template
	if tmpl == nil {
		tmpl = cartview.MustTemplate()
	}
	continueURL := deps.ContinueURL
	if continueURL == "" {
		continueURL = defaultContinueURL
	}
	cookieName := deps.CookieName
	if cookieName == "" {
		cookieName = defaultCookieName
	}
	return &Handler{
		sessions:    deps.Sessions,
		catalog:     deps.Catalog,
		tmpl:        tmpl,
		tel:         tel,
		log:         tel.Logger().With(observability.F("component", componentHTTPHandler)),
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		continueURL: continueURL,
		cookieName:  cookieName,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Trace → Request Logger + Metrics → Access Log → Recoverer → Handler
	r.Use(chimw.RealIP)
	r.Use(withTrace)
	r.Use(ObservabilityMiddleware(h.log, func(r *http.Request) string {
		return r.Header.Get(headerRequestID)
	}, h.tel))
	r.Use(withAccessLog(h.log))
	r.Use(chimw.Recoverer)

	r.Get("/health", h.handleHealth)
	r.Get("/products", h.handleListProducts)

	r.Group(func(r chi.Router) {
		r.Use(h.withSession)

		r.Post("/products/{name}/cart", h.handleAddProduct)

		r.Route(cartPath, func(r chi.Router) {
			r.Get("/", h.handleGetCart)
			r.Post("/items", h.handleAddItem)
			r.Route("/items/{name}", func(r chi.Router) {
				r.Put("/", h.handleSetQuantity)
				r.Delete("/", h.handleRemove)
				r.Post("/increment", h.handleIncrement)
				r.Post("/decrement", h.handleDecrement)
				r.Post("/remove", h.handleRemove)
			})
			r.Post("/continue", h.handleContinue)
			r.Post("/checkout", h.handleCheckout)
		})
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type productResponse struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Cost        string `json:"cost"`
	Category    string `json:"category,omitempty"`
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), nameParam(r))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	entry, err := domcart.NewEntry(product.Name, product.Description, product.Image, product.Cost)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if _, err := storeFromContext(r.Context()).AddItem(r.Context(), entry); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.respondMutation(w, r)
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, r, http.StatusOK, h.view(r, nil).Render(r.Context()))
}

type addItemRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Image       string `json:"image" validate:"omitempty,uri"`
	Cost        string `json:"cost" validate:"required,startswith=$"`
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	entry, err := domcart.NewEntry(req.Name, req.Description, req.Image, req.Cost)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	if _, err := storeFromContext(r.Context()).AddItem(r.Context(), entry); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.respondMutation(w, r)
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func (h *Handler) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if _, err := storeFromContext(r.Context()).UpdateQuantity(r.Context(), nameParam(r), *req.Quantity); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.respondMutation(w, r)
}

func (h *Handler) handleIncrement(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, (*cartview.View).Increment)
}

func (h *Handler) handleDecrement(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, (*cartview.View).Decrement)
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, (*cartview.View).Remove)
}

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request,
	action func(*cartview.View, context.Context, string) (domcart.State, error),
) {
	if _, err := action(h.view(r, nil), r.Context(), nameParam(r)); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	h.respondMutation(w, r)
}

func (h *Handler) handleContinue(w http.ResponseWriter, r *http.Request) {
	source := r.FormValue("source")
	redirected := false
	view := h.view(r, func(context.Context, cartview.Event) {
		redirected = true
		http.Redirect(w, r, h.continueURL, http.StatusSeeOther)
	})
	view.ContinueShopping(r.Context(), cartview.Event{Source: source})
	if !redirected {
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleCheckout answers 501: checkout exists only as a notice.
func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	view := h.view(r, nil)
	notice := view.Checkout(r.Context())
	h.writePage(w, r, http.StatusNotImplemented, view.Render(r.Context()).WithNotice(notice))
}

func (h *Handler) view(r *http.Request, onContinue cartview.ContinueShoppingFunc) *cartview.View {
	return cartview.New(storeFromContext(r.Context()), onContinue, logctx.FromOr(r.Context(), h.log))
}

// respondMutation follows post/redirect/get for browsers and returns the page to JSON clients.
func (h *Handler) respondMutation(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, h.view(r, nil).Render(r.Context()))
		return
	}
	http.Redirect(w, r, cartPath, http.StatusSeeOther)
}

func (h *Handler) writePage(w http.ResponseWriter, r *http.Request, status int, page cartview.Page) {
	if wantsJSON(r) {
		writeJSON(w, status, page)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tmpl.Render(w, page); err != nil {
		logctx.FromOr(r.Context(), h.log).Error("cart_page_render_failed", observability.F("error", err))
	}
}

func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid field %s: failed on rule %s", strings.ToLower(verrs[0].Field()), verrs[0].Tag())
		}
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domcatalog.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domcart.ErrInvalidCost),
		errors.Is(err, domcart.ErrNameRequired):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		logctx.FromOr(r.Context(), h.log).Error("http_request_failed", observability.F("error", err))
		writeError(w, http.StatusInternalServerError, err)
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// nameParam returns the decoded {name} segment. chi matches on RawPath when
// the request carries one, and on the already decoded Path otherwise.
func nameParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

type storeKey struct{}

// withSession resolves the cart session from the cookie, issuing a new id
// when it is missing or malformed, and puts its store on the context.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(h.cookieName); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     h.cookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := logctx.Enrich(r.Context(), h.log, observability.F("session_id", id))
		store, err := h.sessions.Open(ctx, id)
		if err != nil {
			h.writeDomainError(w, r.WithContext(ctx), err)
			return
		}
		ctx = context.WithValue(ctx, storeKey{}, store)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func storeFromContext(ctx context.Context) *appcart.Store {
	store, _ := ctx.Value(storeKey{}).(*appcart.Store)
	return store
}
