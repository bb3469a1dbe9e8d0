package api

import (
	"context"

	"github.com/hazyhaar/gazetteer/pkg/gazetteer"
	"github.com/hazyhaar/gazetteer/pkg/journal"
	"github.com/hazyhaar/gazetteer/pkg/kit"
)

// Shared request/response types used by both HTTP and MCP transports.

type resolveReq struct {
	Query string
}

type batchReq struct {
	Queries []string
}

type askReq struct {
	Question string
}

type categoryReq struct {
	Category string
	Limit    int
}

type journalReq struct {
	Limit int
}

type batchResponse struct {
	Results []BatchItem `json:"results"`
}

type categoriesResponse struct {
	Dataset    string                   `json:"dataset,omitempty"`
	Version    string                   `json:"version,omitempty"`
	Categories []gazetteer.CategoryInfo `json:"categories"`
}

type journalResponse struct {
	Interactions []journal.Interaction `json:"interactions"`
}

// Endpoints are the transport-agnostic actions of the service.
type Endpoints struct {
	Resolve        kit.Endpoint
	ResolveBatch   kit.Endpoint
	Ask            kit.Endpoint
	ListCategories kit.Endpoint
	ListCategory   kit.Endpoint
	Journal        kit.Endpoint
}

// NewEndpoints wires the service actions with logging, and journaling
// for the question-answering ones.
func NewEndpoints(svc *Service) *Endpoints {
	logged := func(name string) kit.Middleware { return kit.Logging(svc.logger, name) }
	return &Endpoints{
		Resolve:        kit.Chain(logged("resolve"), journaled(svc))(resolveEndpoint(svc)),
		ResolveBatch:   logged("resolve_batch")(resolveBatchEndpoint(svc)),
		Ask:            kit.Chain(logged("ask"), journaled(svc))(askEndpoint(svc)),
		ListCategories: logged("list_categories")(listCategoriesEndpoint(svc)),
		ListCategory:   logged("list_category")(listCategoryEndpoint(svc)),
		Journal:        logged("journal")(journalEndpoint(svc)),
	}
}

func resolveEndpoint(svc *Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*resolveReq)
		return svc.Resolve(ctx, req.Query)
	}
}

func resolveBatchEndpoint(svc *Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*batchReq)
		items, err := svc.ResolveBatch(ctx, req.Queries)
		if err != nil {
			return nil, err
		}
		return batchResponse{Results: items}, nil
	}
}

func askEndpoint(svc *Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*askReq)
		return svc.Ask(ctx, req.Question)
	}
}

func listCategoriesEndpoint(svc *Service) kit.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		resp := categoriesResponse{Categories: svc.Categories(ctx)}
		if m := svc.reg.Manifest(); m != nil {
			resp.Dataset, resp.Version = m.ID, m.Version
		}
		return resp, nil
	}
}

func listCategoryEndpoint(svc *Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*categoryReq)
		return svc.ListCategory(ctx, req.Category, req.Limit)
	}
}

func journalEndpoint(svc *Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*journalReq)
		items, err := svc.Recent(ctx, req.Limit)
		if err != nil {
			return nil, err
		}
		return journalResponse{Interactions: items}, nil
	}
}

// journaled records every successful resolve or ask call.
func journaled(svc *Service) kit.Middleware {
	return func(next kit.Endpoint) kit.Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			resp, err := next(ctx, request)
			if err != nil {
				return resp, err
			}
			switch r := resp.(type) {
			case Answer:
				svc.record(ctx, r.Query, r.Label, &r, "")
			case AskReply:
				svc.record(ctx, r.Question, r.Label, r.Answer, r.Kind)
			}
			return resp, nil
		}
	}
}
