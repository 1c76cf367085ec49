package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/petnest/petnest/internal/transport/http/dto"
)

func (c *Client) Login(ctx context.Context, email, password string) (dto.AuthTokenResponse, error) {
	return getOne[dto.AuthTokenResponse](ctx, c, http.MethodPost, "/v1/api/auth/login", dto.LoginRequest{
		Email:    email,
		Password: password,
	})
}

func (c *Client) Register(ctx context.Context, email, password, role string) (dto.AuthTokenResponse, error) {
	return getOne[dto.AuthTokenResponse](ctx, c, http.MethodPost, "/v1/api/auth/register", dto.RegisterRequest{
		Email:    email,
		Password: password,
		Role:     role,
	})
}

func (c *Client) Me(ctx context.Context) (dto.AuthMeResponse, error) {
	return getOne[dto.AuthMeResponse](ctx, c, http.MethodGet, "/v1/api/auth/me", nil)
}

func (c *Client) DashboardStats(ctx context.Context) (dto.DashboardStatsResponse, error) {
	return getOne[dto.DashboardStatsResponse](ctx, c, http.MethodGet, "/v1/api/admin/dashboard/stats", nil)
}

func (c *Client) DashboardActivity(ctx context.Context, limit int) ([]dto.ActivityResponse, error) {
	path := "/v1/api/admin/dashboard/activity"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	out, err := getOne[[]dto.ActivityResponse](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []dto.ActivityResponse{}
	}
	return out, nil
}

func (c *Client) RegisterSeller(ctx context.Context, req dto.RegisterSellerRequest) (dto.SellerResponse, error) {
	return getOne[dto.SellerResponse](ctx, c, http.MethodPost, "/v1/api/seller/register", req)
}

// MySeller reads the caller's seller record. Responses are never cached.
func (c *Client) MySeller(ctx context.Context) (dto.SellerResponse, error) {
	return getOne[dto.SellerResponse](ctx, c, http.MethodGet, "/v1/api/seller/me", nil)
}

func (c *Client) MyPets(ctx context.Context, params ListParams) (Page[dto.PetResponse], error) {
	return listPage[dto.PetResponse](ctx, c, "/v1/api/seller/pets", params)
}

func (c *Client) CreatePet(ctx context.Context, req dto.CreatePetRequest) (dto.PetResponse, error) {
	return getOne[dto.PetResponse](ctx, c, http.MethodPost, "/v1/api/seller/pets", req)
}

func (c *Client) PublicPets(ctx context.Context, params ListParams) (Page[dto.PetResponse], error) {
	params.Status = ""
	return listPage[dto.PetResponse](ctx, c, "/v1/api/pets", params)
}

func (c *Client) SubmitReport(ctx context.Context, req dto.SubmitReportRequest) (dto.ReportResponse, error) {
	return getOne[dto.ReportResponse](ctx, c, http.MethodPost, "/v1/api/reports", req)
}

func (c *Client) ListSpecies(ctx context.Context) ([]dto.SpeciesResponse, error) {
	return getOne[[]dto.SpeciesResponse](ctx, c, http.MethodGet, "/v1/api/species", nil)
}

func (c *Client) ListBreeds(ctx context.Context, speciesID int64) ([]dto.BreedResponse, error) {
	return getOne[[]dto.BreedResponse](ctx, c, http.MethodGet, idPath("/v1/api/species", speciesID, "/breeds"), nil)
}

func (c *Client) CreateSpecies(ctx context.Context, name string) (dto.SpeciesResponse, error) {
	return getOne[dto.SpeciesResponse](ctx, c, http.MethodPost, "/v1/api/admin/species", dto.NameRequest{Name: name})
}

func (c *Client) CreateBreed(ctx context.Context, speciesID int64, name string) (dto.BreedResponse, error) {
	return getOne[dto.BreedResponse](ctx, c, http.MethodPost, idPath("/v1/api/admin/species", speciesID, "/breeds"), dto.NameRequest{Name: name})
}

func (c *Client) LiveAds(ctx context.Context, placement string) ([]dto.AdListingResponse, error) {
	path := "/v1/api/ads"
	if p := strings.TrimSpace(placement); p != "" {
		path += "?placement=" + url.QueryEscape(p)
	}
	return getOne[[]dto.AdListingResponse](ctx, c, http.MethodGet, path, nil)
}

// File is an upload attached to a multipart request.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

type AdListingInput struct {
	Title     string
	Placement string
	ClickURL  string
	StartsAt  *time.Time
	EndsAt    *time.Time
	Image     File
}

func (c *Client) CreateAdListing(ctx context.Context, in AdListingInput) (dto.AdListingResponse, error) {
	fields := map[string]string{
		"title":     in.Title,
		"placement": in.Placement,
		"click_url": in.ClickURL,
	}
	if in.StartsAt != nil {
		fields["starts_at"] = in.StartsAt.UTC().Format(time.RFC3339)
	}
	if in.EndsAt != nil {
		fields["ends_at"] = in.EndsAt.UTC().Format(time.RFC3339)
	}

	var out dto.AdListingResponse
	err := c.doMultipart(ctx, http.MethodPost, "/v1/api/ads/admin/ads", fields, map[string]File{"image": in.Image}, &out)
	return out, err
}

func (c *Client) BuyerProfile(ctx context.Context) (dto.BuyerProfileResponse, error) {
	return getOne[dto.BuyerProfileResponse](ctx, c, http.MethodGet, "/v1/api/buyer/profile", nil)
}

// PatchBuyerProfile sends JSON unless an avatar is attached.
func (c *Client) PatchBuyerProfile(ctx context.Context, req dto.PatchBuyerProfileRequest, avatar *File) (dto.BuyerProfileResponse, error) {
	if avatar == nil {
		return getOne[dto.BuyerProfileResponse](ctx, c, http.MethodPatch, "/v1/api/buyer/profile", req)
	}

	fields := map[string]string{}
	for key, value := range map[string]*string{
		"fullName": req.FullName,
		"phone":    req.Phone,
		"city":     req.City,
		"bio":      req.Bio,
	} {
		if value != nil {
			fields[key] = *value
		}
	}
	var out dto.BuyerProfileResponse
	err := c.doMultipart(ctx, http.MethodPatch, "/v1/api/buyer/profile", fields, map[string]File{"avatar": *avatar}, &out)
	return out, err
}

func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, files map[string]File, data any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return &RequestError{Op: "encode form", Kind: KindValidation, Err: err}
		}
	}
	for field, file := range files {
		if file.Body == nil {
			continue
		}
		part, err := writer.CreatePart(fileHeader(field, file))
		if err != nil {
			return &RequestError{Op: "encode form", Kind: KindValidation, Err: err}
		}
		if _, err := io.Copy(part, file.Body); err != nil {
			return &RequestError{Op: "encode form", Kind: KindValidation, Err: err}
		}
	}
	if err := writer.Close(); err != nil {
		return &RequestError{Op: "encode form", Kind: KindValidation, Err: err}
	}

	_, err := c.do(ctx, method, path, writer.FormDataContentType(), &buf, data)
	return err
}

func fileHeader(field string, file File) textproto.MIMEHeader {
	name := file.Name
	if name == "" {
		name = field
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return textproto.MIMEHeader{
		"Content-Disposition": {fmt.Sprintf(`form-data; name=%q; filename=%q`, field, name)},
		"Content-Type":        {contentType},
	}
}
