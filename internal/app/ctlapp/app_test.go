package ctlapp

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/petnest/petnest/internal/app/apiapp"
	"github.com/petnest/petnest/internal/client"
	"github.com/petnest/petnest/internal/config"
	"github.com/petnest/petnest/internal/console"
	"github.com/petnest/petnest/internal/transport/http/dto"
)

const (
	adminEmail    = "admin@petnest.test"
	adminPassword = "admin-password"
)

type harness struct {
	cfg config.Config
	api *client.Client
}

func newHarness(t *testing.T) harness {
	t.Helper()

	cfg := config.Default()
	cfg.Storage.Driver = "memory"
	cfg.Redis.Addr = ""
	cfg.S3.Endpoint = ""
	cfg.Auth.JWTSecret = "ctl-test-secret"
	cfg.Bootstrap.AdminEmail = adminEmail
	cfg.Bootstrap.AdminPassword = adminPassword

	server, err := apiapp.New(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("new api app: %v", err)
	}
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	cfg.Console.APIURL = ts.URL
	cfg.Console.Timeout = 2 * time.Second
	cfg.Console.CacheStore = "sqlite"

	api, err := client.New(ts.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return harness{cfg: cfg, api: api}
}

type ctl struct {
	app    *App
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func (h harness) ctl(t *testing.T, name string) *ctl {
	t.Helper()
	cfg := h.cfg
	cfg.Console.StateFile = filepath.Join(t.TempDir(), name+".db")

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	app, err := New(context.Background(), cfg, zap.NewNop(), out, errOut)
	if err != nil {
		t.Fatalf("new console app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return &ctl{app: app, out: out, errOut: errOut}
}

// run executes one command and returns its stdout.
func (c *ctl) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c.out.Reset()
	c.errOut.Reset()
	err := c.app.Run(context.Background(), args)
	return c.out.String(), err
}

func (c *ctl) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := c.run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v (stderr=%s)", args, err, c.errOut.String())
	}
	return out
}

func TestAdRequestRejectFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	submitted, err := h.api.SubmitAdRequest(ctx, dto.SubmitAdRequestRequest{
		BrandName:    "Acme",
		ContactEmail: "a@x.com",
		Placement:    "home_top_banner",
	})
	if err != nil {
		t.Fatalf("submit ad request: %v", err)
	}
	id := strconv.FormatInt(submitted.ID, 10)

	admin := h.ctl(t, "admin")
	if out := admin.mustRun(t, "login", "-email", adminEmail, "-password", adminPassword); !strings.Contains(out, "(admin)") {
		t.Fatalf("unexpected login output: %q", out)
	}

	if out := admin.mustRun(t, "ads", "list", "-status", "pending"); !strings.Contains(out, "Acme") {
		t.Fatalf("pending list should contain the request: %q", out)
	}

	_, err = admin.run(t, "ads", "reject", "-id", id, "-reason", "   ")
	if !errors.Is(err, console.ErrReasonRequired) {
		t.Fatalf("expected reason required, got %v", err)
	}
	if !strings.Contains(admin.errOut.String(), "rejection reason") {
		t.Fatalf("expected a notice, got %q", admin.errOut.String())
	}

	admin.mustRun(t, "ads", "reject", "-id", id, "-reason", "policy violation")

	if out := admin.mustRun(t, "ads", "list", "-status", "pending"); strings.Contains(out, "Acme") {
		t.Fatalf("rejected request still pending: %q", out)
	}
	if out := admin.mustRun(t, "ads", "list", "-status", "rejected"); !strings.Contains(out, "Acme") {
		t.Fatalf("rejected list should contain the request: %q", out)
	}
	if out := admin.mustRun(t, "ads", "show", "-id", id); !strings.Contains(out, "policy violation") {
		t.Fatalf("details should carry the reason: %q", out)
	}

	_, err = admin.run(t, "ads", "approve", "-id", id)
	if !client.IsConflict(err) {
		t.Fatalf("expected conflict on decided request, got %v", err)
	}
}

func TestAdSearchIsPageScoped(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for _, brand := range []string{"Acme Pets", "Bark Co", "Acme Toys"} {
		if _, err := h.api.SubmitAdRequest(ctx, dto.SubmitAdRequestRequest{
			BrandName:    brand,
			ContactEmail: "ads@example.com",
			Placement:    "home_sidebar",
		}); err != nil {
			t.Fatalf("submit %s: %v", brand, err)
		}
	}

	admin := h.ctl(t, "admin")
	admin.mustRun(t, "login", "-email", adminEmail, "-password", adminPassword)

	// Newest first: page 1 of size 2 holds "Acme Toys" and "Bark Co".
	out := admin.mustRun(t, "ads", "list", "-limit", "2", "-q", "acme")
	if !strings.Contains(out, "Acme Toys") || strings.Contains(out, "Acme Pets") || strings.Contains(out, "Bark Co") {
		t.Fatalf("search should only cover the loaded page: %q", out)
	}
}

func TestSellerGateAndPetVerification(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	admin := h.ctl(t, "admin")
	admin.mustRun(t, "login", "-email", adminEmail, "-password", adminPassword)
	adminAPI := h.api.WithToken(mustToken(t, h.api, adminEmail, adminPassword))
	species, err := adminAPI.CreateSpecies(ctx, "Dog")
	if err != nil {
		t.Fatalf("create species: %v", err)
	}
	speciesID := strconv.FormatInt(species.ID, 10)

	if _, err := h.api.Register(ctx, "seller@petnest.test", "seller-password", "seller"); err != nil {
		t.Fatalf("register seller: %v", err)
	}
	seller := h.ctl(t, "seller")
	seller.mustRun(t, "login", "-email", "seller@petnest.test", "-password", "seller-password")
	seller.mustRun(t, "seller", "register", "-business", "Happy Paws", "-phone", "+15550100")

	addPet := []string{"seller", "add-pet", "-name", "Biscuit", "-species", speciesID, "-age", "4", "-gender", "male", "-price", "25000"}
	_, err = seller.run(t, addPet...)
	if !errors.Is(err, console.ErrSellerNotVerified) {
		t.Fatalf("expected gate rejection, got %v", err)
	}
	if !strings.Contains(seller.errOut.String(), "awaiting verification") {
		t.Fatalf("unexpected notice: %q", seller.errOut.String())
	}
	if out := admin.mustRun(t, "pets", "list", "-status", "all"); strings.Contains(out, "Biscuit") {
		t.Fatalf("gated pet must not be created: %q", out)
	}

	sellers, err := adminAPI.ListSellers(ctx, client.ListParams{Status: "pending"})
	if err != nil || len(sellers.Items) != 1 {
		t.Fatalf("list sellers: %+v err=%v", sellers, err)
	}
	admin.mustRun(t, "sellers", "approve", "-id", strconv.FormatInt(sellers.Items[0].ID, 10))

	if out := seller.mustRun(t, "seller", "status"); !strings.Contains(out, "verified") {
		t.Fatalf("unexpected status: %q", out)
	}
	if out := seller.mustRun(t, addPet...); !strings.Contains(out, "status pending") {
		t.Fatalf("unexpected add-pet output: %q", out)
	}

	pets, err := adminAPI.ListPets(ctx, client.ListParams{Status: "pending"})
	if err != nil || len(pets.Items) != 1 {
		t.Fatalf("list pets: %+v err=%v", pets, err)
	}
	petID := strconv.FormatInt(pets.Items[0].ID, 10)

	if _, err := admin.run(t, "pets", "reject", "-id", petID); !errors.Is(err, ErrUsage) {
		t.Fatalf("pets have no reject path, got %v", err)
	}
	admin.mustRun(t, "pets", "verify", "-id", petID)
	if out := admin.mustRun(t, "pets", "list"); strings.Contains(out, "Biscuit") {
		t.Fatalf("verified pet still pending: %q", out)
	}
}

func TestDashboardUsesLocalCache(t *testing.T) {
	h := newHarness(t)

	admin := h.ctl(t, "admin")
	admin.mustRun(t, "login", "-email", adminEmail, "-password", adminPassword)

	out := admin.mustRun(t, "dashboard")
	if !strings.Contains(out, "loading dashboard") || !strings.Contains(out, "users:") {
		t.Fatalf("first run should load in the foreground: %q", out)
	}

	out = admin.mustRun(t, "dashboard")
	if strings.Contains(out, "loading dashboard") {
		t.Fatalf("second run should render from cache: %q", out)
	}
}

func TestUnknownCommandIsUsageError(t *testing.T) {
	h := newHarness(t)
	c := h.ctl(t, "any")

	if _, err := c.run(t, "frobnicate"); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if _, err := c.run(t, "ads", "approve"); !errors.Is(err, ErrUsage) {
		t.Fatalf("missing id should be a usage error, got %v", err)
	}
}

func mustToken(t *testing.T, api *client.Client, email, password string) string {
	t.Helper()
	resp, err := api.Login(context.Background(), email, password)
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return resp.AccessToken
}
