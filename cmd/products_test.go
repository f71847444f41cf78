// ABOUTME: Tests for the products command group
// ABOUTME: Verifies output, validation before requests and exit codes against a fake API

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/apitest"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/productform"
)

func TestProtectedCommandsRequireLogin(t *testing.T) {
	srv := useFakeAPI(t)
	ctx := context.Background()

	commands := map[string]func(w *bytes.Buffer) int{
		"list":      func(w *bytes.Buffer) int { return runProductsList(ctx, w, 1, 10) },
		"get":       func(w *bytes.Buffer) int { return runProductsGet(ctx, w, "p1") },
		"create":    func(w *bytes.Buffer) int { return runProductsCreate(ctx, w, productform.Values{Name: "X", Price: "1"}) },
		"update":    func(w *bytes.Buffer) int { return runProductsUpdate(ctx, w, "p1", map[string]string{"price": "2"}) },
		"delete":    func(w *bytes.Buffer) int { return runProductsDelete(ctx, w, "p1", true) },
		"dashboard": func(w *bytes.Buffer) int { return runDashboard(ctx, w) },
	}

	for name, run := range commands {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if code := run(&buf); code != exitNotAuthenticated {
				t.Errorf("expected exit code 3, got %d", code)
			}
			if !strings.Contains(buf.String(), "siria-admin login") {
				t.Errorf("expected login hint, got: %s", buf.String())
			}
		})
	}

	if n := len(srv.Requests()); n != 0 {
		t.Errorf("expected no requests without a session, got %v", srv.Requests())
	}
}

func TestProductsList_Text(t *testing.T) {
	srv := useFakeAPI(t)
	srv.Seed(product("Paracetamol 500mg", "4.50", 120), product("Ibuprofeno 400mg", "6.00", 3))
	loginAs(t)

	var buf bytes.Buffer
	code := runProductsList(context.Background(), &buf, 1, 10)

	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	for _, want := range []string{"Paracetamol 500mg", "4.50", "Ibuprofeno 400mg", "3 (low)", "Page 1 of 1 (2 products)"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected output to contain %q:\n%s", want, buf.String())
		}
	}
}

func TestProductsList_JSON(t *testing.T) {
	srv := useFakeAPI(t)
	srv.Seed(product("Paracetamol 500mg", "4.50", 120))
	loginAs(t)
	jsonOutput = true

	var buf bytes.Buffer
	if code := runProductsList(context.Background(), &buf, 1, 10); code != exitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	var parsed struct {
		Products []struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Stock int    `json:"stock"`
		} `json:"products"`
	}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(parsed.Products) != 1 || parsed.Products[0].ID != "p1" || parsed.Products[0].Stock != 120 {
		t.Errorf("unexpected products: %+v", parsed.Products)
	}
}

func TestProductsList_UnknownShapeIsEmpty(t *testing.T) {
	srv := useFakeAPI(t)
	srv.Seed(product("Paracetamol 500mg", "4.50", 120))
	srv.SetListShape(apitest.ShapeUnknown)
	loginAs(t)

	var buf bytes.Buffer
	if code := runProductsList(context.Background(), &buf, 1, 10); code != exitOK {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(buf.String(), "No products found.") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestProductsList_StrictShapes(t *testing.T) {
	srv := useFakeAPI(t)
	t.Setenv("SIRIA_STRICT_SHAPES", "true")
	srv.SetListShape(apitest.ShapeUnknown)
	loginAs(t)

	var buf bytes.Buffer
	if code := runProductsList(context.Background(), &buf, 1, 10); code != exitError {
		t.Errorf("expected exit code 1, got %d: %s", code, buf.String())
	}
}

func TestProductsList_InvalidPage(t *testing.T) {
	srv := useFakeAPI(t)
	loginAs(t)

	var buf bytes.Buffer
	if code := runProductsList(context.Background(), &buf, 0, 10); code != exitUsage {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if countRequests(srv, "GET /products") != 0 {
		t.Error("expected no list request for an invalid page")
	}
}

func TestProductsList_ExpiredToken(t *testing.T) {
	srv := useFakeAPI(t)
	loginAs(t)
	srv.ExpireAccessToken()

	var buf bytes.Buffer
	if code := runProductsList(context.Background(), &buf, 1, 10); code != exitNotAuthenticated {
		t.Errorf("expected exit code 3, got %d: %s", code, buf.String())
	}
}

func TestProductsList_AutoRefresh(t *testing.T) {
	srv := useFakeAPI(t)
	t.Setenv("SIRIA_AUTO_REFRESH", "true")
	srv.Seed(product("Paracetamol 500mg", "4.50", 120))
	loginAs(t)
	srv.ExpireAccessToken()

	var buf bytes.Buffer
	if code := runProductsList(context.Background(), &buf, 1, 10); code != exitOK {
		t.Fatalf("expected refresh and retry to succeed, got %d: %s", code, buf.String())
	}
	if countRequests(srv, "POST /auth/refresh") != 1 {
		t.Errorf("expected exactly one refresh, got %v", srv.Requests())
	}
}

func TestProductsList_ServerError(t *testing.T) {
	srv := useFakeAPI(t)
	loginAs(t)
	srv.FailNext("GET /products", http.StatusInternalServerError, `{"meta":{"status":false,"message":"database unavailable"}}`)

	var buf bytes.Buffer
	if code := runProductsList(context.Background(), &buf, 1, 10); code != exitError {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "Error: database unavailable") {
		t.Errorf("expected server message, got: %s", buf.String())
	}
}

func TestProductsList_RejectionWordingIsNotExpiry(t *testing.T) {
	srv := useFakeAPI(t)
	loginAs(t)
	srv.FailNext("GET /products", http.StatusOK, `{"meta":{"status":false,"message":"not authorized, please log in again"}}`)

	var buf bytes.Buffer
	if code := runProductsList(context.Background(), &buf, 1, 10); code != exitError {
		t.Errorf("expected exit code 1 for a server rejection, got %d: %s", code, buf.String())
	}
}

func TestProductsGet(t *testing.T) {
	srv := useFakeAPI(t)
	srv.Seed(product("Paracetamol 500mg", "4.50", 120))
	loginAs(t)

	var buf bytes.Buffer
	if code := runProductsGet(context.Background(), &buf, "p1"); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Name:        Paracetamol 500mg") {
		t.Errorf("unexpected output: %s", buf.String())
	}

	buf.Reset()
	if code := runProductsGet(context.Background(), &buf, "missing"); code != exitError {
		t.Errorf("expected exit code 1 for missing product, got %d", code)
	}
	if !strings.Contains(buf.String(), "not found") {
		t.Errorf("expected not found message, got: %s", buf.String())
	}
}

func TestProductsCreate(t *testing.T) {
	srv := useFakeAPI(t)
	loginAs(t)

	var buf bytes.Buffer
	code := runProductsCreate(context.Background(), &buf, productform.Values{
		Name:  "Paracetamol 500mg",
		Price: "4.50",
		Stock: "120",
	})

	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Product created") {
		t.Errorf("unexpected output: %s", buf.String())
	}
	products := srv.Products()
	if len(products) != 1 || products[0].Name != "Paracetamol 500mg" || *products[0].Stock != 120 {
		t.Errorf("unexpected stored products: %+v", products)
	}
}

func TestProductsCreate_WithoutEntityNotesRefresh(t *testing.T) {
	srv := useFakeAPI(t)
	srv.SetOmitEntity(true)
	loginAs(t)

	var buf bytes.Buffer
	if code := runProductsCreate(context.Background(), &buf, productform.Values{Name: "Ibuprofeno", Price: "6"}); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "products list") {
		t.Errorf("expected refresh note, got: %s", buf.String())
	}
}

func TestProductsCreate_ValidationSkipsRequest(t *testing.T) {
	srv := useFakeAPI(t)
	loginAs(t)

	var buf bytes.Buffer
	code := runProductsCreate(context.Background(), &buf, productform.Values{Name: "", Price: "-1"})

	if code != exitUsage {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(buf.String(), "name: this field is required") {
		t.Errorf("expected field errors, got: %s", buf.String())
	}
	if countRequests(srv, "POST /products") != 0 {
		t.Error("expected no create request")
	}
}

func TestProductsCreate_Conflict(t *testing.T) {
	srv := useFakeAPI(t)
	srv.Seed(product("Paracetamol 500mg", "4.50", 120))
	loginAs(t)

	var buf bytes.Buffer
	code := runProductsCreate(context.Background(), &buf, productform.Values{Name: "Paracetamol 500mg", Price: "4.50"})

	if code != exitError {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "Product already exists") {
		t.Errorf("expected conflict message, got: %s", buf.String())
	}
}

func TestProductsUpdate_KeepsUnchangedFields(t *testing.T) {
	srv := useFakeAPI(t)
	p := product("Paracetamol 500mg", "4.50", 120)
	p.Description = "Analgésico"
	srv.Seed(p)
	loginAs(t)

	var buf bytes.Buffer
	code := runProductsUpdate(context.Background(), &buf, "p1", map[string]string{"price": "5.10"})

	if code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	got := srv.Products()[0]
	if got.Name != "Paracetamol 500mg" || got.Description != "Analgésico" || *got.Stock != 120 {
		t.Errorf("expected unchanged fields to be kept, got %+v", got)
	}
	if got.Price.StringFixed(2) != "5.10" {
		t.Errorf("expected price 5.10, got %s", got.Price)
	}
}

func TestProductsUpdate_NoChanges(t *testing.T) {
	srv := useFakeAPI(t)
	loginAs(t)

	var buf bytes.Buffer
	if code := runProductsUpdate(context.Background(), &buf, "p1", map[string]string{}); code != exitUsage {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if countRequests(srv, "GET /products/") != 0 {
		t.Error("expected no requests")
	}
}

func TestProductsDelete_RequiresConfirmation(t *testing.T) {
	srv := useFakeAPI(t)
	srv.Seed(product("Paracetamol 500mg", "4.50", 120))
	loginAs(t)

	var buf bytes.Buffer
	if code := runProductsDelete(context.Background(), &buf, "p1", false); code != exitUsage {
		t.Errorf("expected exit code 2, got %d", code)
	}
	if len(srv.Products()) != 1 {
		t.Error("expected product to survive without confirmation")
	}

	buf.Reset()
	if code := runProductsDelete(context.Background(), &buf, "p1", true); code != exitOK {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if len(srv.Products()) != 0 {
		t.Error("expected product to be deleted")
	}
	if !strings.Contains(buf.String(), "Product deleted") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestChangedFormFields(t *testing.T) {
	var v productform.Values
	flags := pflag.NewFlagSet("update", pflag.ContinueOnError)
	flags.StringVar(&v.Name, "name", "", "")
	flags.StringVar(&v.Price, "price", "", "")
	flags.StringVar(&v.ImageURL, "image-url", "", "")
	flags.Bool("verbose", false, "")

	if err := flags.Parse([]string{"--price", "3.20", "--image-url", "https://cdn.example/a.png", "--verbose"}); err != nil {
		t.Fatal(err)
	}

	got := changedFormFields(flags)
	if len(got) != 2 || got["price"] != "3.20" || got["image_url"] != "https://cdn.example/a.png" {
		t.Errorf("unexpected changes: %v", got)
	}
}

func TestApplyChanges(t *testing.T) {
	v := applyChanges(productform.Values{Name: "A", Price: "1", Stock: "2"}, map[string]string{"stock": "", "name": "B"})

	if v.Name != "B" || v.Price != "1" || v.Stock != "" {
		t.Errorf("unexpected values: %+v", v)
	}
}
