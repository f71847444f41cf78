// ABOUTME: Shared helpers for command tests
// ABOUTME: Points the commands at a fake API with an isolated config directory

package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/apitest"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/client"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/productform"
)

// useFakeAPI starts a fake API and resets global flags for the test.
func useFakeAPI(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.New(t)

	t.Setenv("SIRIA_CONFIG_DIR", t.TempDir())
	t.Setenv("SIRIA_API_URL", "")
	t.Setenv("SIRIA_AUTO_REFRESH", "")
	t.Setenv("SIRIA_PAGE_SIZE", "")

	apiURL = srv.URL
	jsonOutput = false
	outputFormat = "text"
	ephemeral = false
	t.Cleanup(func() {
		apiURL = ""
		jsonOutput = false
		outputFormat = "text"
	})
	return srv
}

// loginAs logs in with the fake's credentials and fails the test otherwise.
func loginAs(t *testing.T) {
	t.Helper()
	var buf bytes.Buffer
	if code := runLogin(context.Background(), &buf, productform.Login{Email: apitest.Email, Password: apitest.Password}); code != exitOK {
		t.Fatalf("login failed with exit code %d: %s", code, buf.String())
	}
}

func product(name, price string, stock int) client.ProductDTO {
	return client.ProductDTO{Name: name, Price: decimal.RequireFromString(price), Stock: &stock}
}

func countRequests(srv *apitest.Server, prefix string) int {
	n := 0
	for _, r := range srv.Requests() {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}
