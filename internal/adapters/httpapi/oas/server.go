package oas

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface is implemented by the HTTP adapter.
type ServerInterface interface {
	// (POST /search)
	SearchNearby(w http.ResponseWriter, r *http.Request)
	// (GET /search)
	SearchNearbyByQuery(w http.ResponseWriter, r *http.Request, params SearchParams)
	// (GET /members/me/location)
	GetMyLocation(w http.ResponseWriter, r *http.Request)
	// (PUT /members/me/location)
	UpdateMyLocation(w http.ResponseWriter, r *http.Request)
	// (POST /geocode)
	TestGeocode(w http.ResponseWriter, r *http.Request)
}

type MiddlewareFunc func(http.Handler) http.Handler

// InvalidParamFormatError is passed to the error handler when a query parameter cannot be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ServerInterfaceWrapper binds request parameters before calling the handler.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) wrap(h http.Handler) http.Handler {
	for _, middleware := range siw.HandlerMiddlewares {
		h = middleware(h)
	}
	return h
}

func (siw *ServerInterfaceWrapper) SearchNearby(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.SearchNearby)).ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) SearchNearbyByQuery(w http.ResponseWriter, r *http.Request) {
	var params SearchParams
	q := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "location", q, &params.Location); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "location", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "radius", q, &params.Radius); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "radius", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "unit", q, &params.Unit); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "unit", Err: err})
		return
	}

	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.SearchNearbyByQuery(w, r, params)
	})).ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) GetMyLocation(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.GetMyLocation)).ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) UpdateMyLocation(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.UpdateMyLocation)).ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) TestGeocode(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.TestGeocode)).ServeHTTP(w, r)
}

type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerFromMux registers the API routes on r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{BaseRouter: r})
}

func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/search", wrapper.SearchNearby)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/search", wrapper.SearchNearbyByQuery)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/members/me/location", wrapper.GetMyLocation)
	})
	r.Group(func(r chi.Router) {
		r.Put(options.BaseURL+"/members/me/location", wrapper.UpdateMyLocation)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/geocode", wrapper.TestGeocode)
	})
	return r
}
