package api

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rolevault/rolevault/internal/store"
)

type CodesHandler struct {
	store *store.Store
}

func NewCodesHandler(st *store.Store) *CodesHandler {
	return &CodesHandler{store: st}
}

type ListCodesRequest struct {
	GuildID int64 `path:"guild-id" doc:"Discord guild ID"`
}

type CodeResponse struct {
	Code              string     `json:"code"`
	ExpiresAt         *time.Time `json:"expires_at"`
	MaxUses           *int       `json:"max_uses"`
	UsesCount         int        `json:"uses_count"`
	RoleID            int64      `json:"role_id,string"`
	GrantExpireSecond *int64     `json:"grant_expire_seconds"`
	CreatedAt         time.Time  `json:"created_at"`
}

type ListCodesResponse struct {
	Body struct {
		Codes []CodeResponse `json:"codes"`
	}
}

func (h *CodesHandler) HandleList(ctx context.Context, input *ListCodesRequest) (*ListCodesResponse, error) {
	views, err := h.store.ListCodes(input.GuildID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list codes: " + err.Error())
	}

	res := &ListCodesResponse{}
	res.Body.Codes = make([]CodeResponse, 0, len(views))
	for _, view := range views {
		res.Body.Codes = append(res.Body.Codes, CodeResponse{
			Code:              view.Code,
			ExpiresAt:         view.ExpiresAt,
			MaxUses:           view.MaxUses,
			UsesCount:         view.UsesCount,
			RoleID:            view.Grant.RoleID,
			GrantExpireSecond: view.Grant.ExpireSeconds,
			CreatedAt:         view.CreatedAt,
		})
	}
	return res, nil
}
