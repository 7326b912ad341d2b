package transport

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"balcao/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: the total reported over HTTP always equals the sum of
// quantity times catalog price for the lines held server-side, no
// matter what sequence of add, update and remove requests produced it.
func TestProperty_CartTotalMatchesRequestSequence(t *testing.T) {
	prices := map[int64]domain.Money{
		1: domain.MustMoney("18.90"),
		2: domain.MustMoney("4.50"),
		3: domain.MustMoney("7.25"),
	}

	properties := gopter.NewProperties(nil)

	properties.Property("HTTP-driven cart total matches the expected sum", prop.ForAll(
		func(ops []int) bool {
			env := newTestEnv(t)
			env.loadCatalog(t)

			expected := make(map[int64]int)
			var last CartResponse
			for _, op := range ops {
				// Each op encodes a product (1..3) and an action.
				productID := int64(op%3) + 1
				switch (op / 3) % 3 {
				case 0: // add one unit
					rec := env.request(t, http.MethodPost, "/api/carrinho/itens", AddItemRequest{ProductID: productID})
					if rec.Code != http.StatusOK {
						t.Logf("FAIL: add returned %d", rec.Code)
						return false
					}
					expected[productID]++
					last = decodeCart(t, rec)
				case 1: // set an explicit quantity 0..5
					qty := (op / 9) % 6
					rec := env.request(t, http.MethodPut, "/api/carrinho/itens/"+strconv.FormatInt(productID, 10), UpdateQuantityRequest{Quantity: &qty})
					if rec.Code != http.StatusOK {
						t.Logf("FAIL: update returned %d", rec.Code)
						return false
					}
					// Setting a quantity only affects lines already
					// in the cart; zero or less removes the line.
					if qty <= 0 {
						delete(expected, productID)
					} else if _, inCart := expected[productID]; inCart {
						expected[productID] = qty
					}
					last = decodeCart(t, rec)
				case 2: // remove the line
					rec := env.request(t, http.MethodDelete, "/api/carrinho/itens/"+strconv.FormatInt(productID, 10), nil)
					if rec.Code != http.StatusOK {
						t.Logf("FAIL: remove returned %d", rec.Code)
						return false
					}
					delete(expected, productID)
					last = decodeCart(t, rec)
				}
			}

			if len(ops) == 0 {
				rec := env.request(t, http.MethodGet, "/api/carrinho", nil)
				last = decodeCart(t, rec)
			}

			want := domain.ZeroMoney()
			for productID, qty := range expected {
				want = want.Add(prices[productID].MulInt(qty))
			}

			if !last.Total.Equals(want) {
				t.Logf("FAIL: total mismatch, want %s got %s", want.String(), last.Total.String())
				return false
			}

			if len(last.Items) != len(expected) {
				t.Logf("FAIL: line count mismatch, want %d got %d", len(expected), len(last.Items))
				return false
			}

			return true
		},
		gen.SliceOf(gen.IntRange(0, 999)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: checkout rejects every cart missing a precondition without
// ever reaching the sales backend.
func TestProperty_CheckoutRejectsIncompleteCarts(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("incomplete carts are rejected with 400", prop.ForAll(
		func(missingCase int) bool {
			env := newTestEnv(t)
			env.loadCatalog(t)

			userID := int64(101)
			switch missingCase % 3 {
			case 0:
				// No operator selected.
				env.request(t, http.MethodPost, "/api/carrinho/itens", AddItemRequest{ProductID: 1})
				env.request(t, http.MethodPut, "/api/carrinho", SelectionsRequest{PaymentMethod: "Pix"})
			case 1:
				// No payment method selected.
				env.request(t, http.MethodPost, "/api/carrinho/itens", AddItemRequest{ProductID: 1})
				env.request(t, http.MethodPut, "/api/carrinho", SelectionsRequest{UserID: &userID})
			case 2:
				// Empty cart.
				env.request(t, http.MethodPut, "/api/carrinho", SelectionsRequest{UserID: &userID, PaymentMethod: "Pix"})
			}

			w := env.request(t, http.MethodPost, "/api/carrinho/finalizar", nil)
			if w.Code != http.StatusBadRequest {
				t.Logf("FAIL: expected 400, got %d", w.Code)
				return false
			}

			var resp map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Logf("FAIL: could not decode error response: %v", err)
				return false
			}
			if _, exists := resp["error"]; !exists {
				t.Logf("FAIL: response missing 'error' field")
				return false
			}

			if env.backend.createCalls != 0 {
				t.Logf("FAIL: backend received %d create calls", env.backend.createCalls)
				return false
			}

			return true
		},
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
