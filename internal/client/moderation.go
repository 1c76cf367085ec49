package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/petnest/petnest/internal/transport/http/dto"
)

func listPage[T any](ctx context.Context, c *Client, path string, params ListParams) (Page[T], error) {
	var items []T
	pagination, err := c.doJSON(ctx, http.MethodGet, path+params.encode(), nil, &items)
	if err != nil {
		return Page[T]{}, err
	}
	return newPage(items, pagination), nil
}

func getOne[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var out T
	_, err := c.doJSON(ctx, method, path, body, &out)
	return out, err
}

func idPath(prefix string, id int64, suffix string) string {
	return prefix + "/" + strconv.FormatInt(id, 10) + suffix
}

// Advertisement requests keep the legacy root path.

func (c *Client) ListAdRequests(ctx context.Context, params ListParams) (Page[dto.AdRequestResponse], error) {
	return listPage[dto.AdRequestResponse](ctx, c, "/advertisementrequests", params)
}

func (c *Client) GetAdRequest(ctx context.Context, id int64) (dto.AdRequestResponse, error) {
	return getOne[dto.AdRequestResponse](ctx, c, http.MethodGet, idPath("/advertisementrequests", id, ""), nil)
}

func (c *Client) UpdateAdRequestStatus(ctx context.Context, id int64, status, rejectionReason string) (dto.AdRequestResponse, error) {
	return getOne[dto.AdRequestResponse](ctx, c, http.MethodPatch, idPath("/advertisementrequests", id, "/status"), dto.UpdateAdRequestStatusRequest{
		Status:          status,
		RejectionReason: rejectionReason,
	})
}

func (c *Client) SubmitAdRequest(ctx context.Context, req dto.SubmitAdRequestRequest) (dto.AdRequestResponse, error) {
	return getOne[dto.AdRequestResponse](ctx, c, http.MethodPost, "/advertisementrequests", req)
}

func (c *Client) ListSellers(ctx context.Context, params ListParams) (Page[dto.SellerResponse], error) {
	return listPage[dto.SellerResponse](ctx, c, "/v1/api/admin/sellers", params)
}

func (c *Client) GetSeller(ctx context.Context, id int64) (dto.SellerResponse, error) {
	return getOne[dto.SellerResponse](ctx, c, http.MethodGet, idPath("/v1/api/admin/sellers", id, ""), nil)
}

func (c *Client) ApproveSeller(ctx context.Context, id int64, notes string) (dto.SellerResponse, error) {
	return getOne[dto.SellerResponse](ctx, c, http.MethodPost, idPath("/v1/api/admin/sellers", id, "/approve"), dto.SellerDecisionRequest{Notes: notes})
}

func (c *Client) RejectSeller(ctx context.Context, id int64, notes string) (dto.SellerResponse, error) {
	return getOne[dto.SellerResponse](ctx, c, http.MethodPost, idPath("/v1/api/admin/sellers", id, "/reject"), dto.SellerDecisionRequest{Notes: notes})
}

func (c *Client) ListPets(ctx context.Context, params ListParams) (Page[dto.PetResponse], error) {
	return listPage[dto.PetResponse](ctx, c, "/v1/api/admin/pets", params)
}

func (c *Client) GetPet(ctx context.Context, id int64) (dto.PetResponse, error) {
	return getOne[dto.PetResponse](ctx, c, http.MethodGet, idPath("/v1/api/admin/pets", id, ""), nil)
}

func (c *Client) VerifyPet(ctx context.Context, id int64) (dto.PetResponse, error) {
	return getOne[dto.PetResponse](ctx, c, http.MethodPost, idPath("/v1/api/admin/pets", id, "/verify"), nil)
}

func (c *Client) ListReports(ctx context.Context, params ListParams) (Page[dto.ReportResponse], error) {
	return listPage[dto.ReportResponse](ctx, c, "/v1/api/admin/reports", params)
}

func (c *Client) GetReport(ctx context.Context, id int64) (dto.ReportResponse, error) {
	return getOne[dto.ReportResponse](ctx, c, http.MethodGet, idPath("/v1/api/admin/reports", id, ""), nil)
}

func (c *Client) ResolveReport(ctx context.Context, id int64, note string) (dto.ReportResponse, error) {
	return getOne[dto.ReportResponse](ctx, c, http.MethodPost, idPath("/v1/api/admin/reports", id, "/resolve"), dto.ReportDecisionRequest{Note: note})
}

func (c *Client) DismissReport(ctx context.Context, id int64, note string) (dto.ReportResponse, error) {
	return getOne[dto.ReportResponse](ctx, c, http.MethodPost, idPath("/v1/api/admin/reports", id, "/dismiss"), dto.ReportDecisionRequest{Note: note})
}

func (c *Client) RejectReasons(ctx context.Context, kind string) ([]dto.RejectReasonResponse, error) {
	return getOne[[]dto.RejectReasonResponse](ctx, c, http.MethodGet, "/v1/api/admin/reject-reasons?kind="+kind, nil)
}
