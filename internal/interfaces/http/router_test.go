package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/application/auth"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/application/usecase"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/pos-ledger/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/pos-ledger/internal/interfaces/http"
)

// buildAPI arma la aplicación completa sobre el almacén en memoria, igual que
// lo hace cmd/api con APP_STORE=memory.
func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()

	stockRepo := memory.NewStockRepo(store)
	movRepo := memory.NewMovementRepo(store)
	alertRepo := memory.NewAlertRepo(store)
	productRepo := memory.NewProductRepo(store)
	saleRepo := memory.NewSaleRepo(store)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(memory.NewUserRepo(store), auth.JWTConfig{
			Secret:     testJWTSecret,
			ExpMinutes: testExpMin,
			Issuer:     testIssuer,
		}),
		ProductUC:   usecase.NewProductUseCase(store, productRepo),
		CategoryUC:  usecase.NewCategoryUseCase(memory.NewCategoryRepo(store)),
		DashboardUC: usecase.NewDashboardUseCase(memory.NewDashboardRepo(store)),
		AdjustUC:    inventory.NewAdjustStockUseCase(store, productRepo),
		QueryUC:     inventory.NewStockQueryUseCase(stockRepo, movRepo, alertRepo),
		CreateSale:  sales.NewCreateSaleUseCase(store, productRepo, stockRepo, saleRepo),
		RefundSale:  sales.NewRefundSaleUseCase(store),
		ReceiptUC:   sales.NewReceiptUseCase(saleRepo, productRepo, infrapdf.NewMarotoReceiptGenerator("Tienda Test")),
		JWTSecret:   testJWTSecret,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	resp.Body.Close()
	return resp, decoded
}

// registerAndLogin registra un usuario con el rol dado y devuelve su token.
func registerAndLogin(t *testing.T, app *fiber.App, email, role string) string {
	t.Helper()
	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    email,
		"password": "supersecreta",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    email,
		"password": "supersecreta",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// Flujo completo: alta de producto, ajuste de entrada, venta, alerta y
// reembolso, todo contra la API HTTP real.
func TestAPI_FlujoCompletoDeVenta(t *testing.T) {
	app := buildAPI(t)
	manager := registerAndLogin(t, app, "gerente@tienda.test", "manager")
	cashier := registerAndLogin(t, app, "caja@tienda.test", "cashier")

	// Crear producto (provisiona la línea de stock en 0).
	resp, product := doJSON(t, app, http.MethodPost, "/api/products", manager, map[string]any{
		"sku":             "CAFE-500",
		"name":            "Café 500g",
		"price":           "12500",
		"min_stock_level": 5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	productID, _ := product["id"].(string)
	require.NotEmpty(t, productID)

	// El cajero no puede ajustar stock.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/stock/adjust", cashier, map[string]any{
		"product_id": productID, "type": "in", "quantity": 10,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// El gerente sí.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/stock/adjust", manager, map[string]any{
		"product_id": productID, "type": "in", "quantity": 10, "note": "carga inicial",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, line := doJSON(t, app, http.MethodGet, "/api/stock/"+productID, cashier, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(10), line["quantity"])

	// Venta de 6 unidades: queda 4 <= mínimo 5, dispara alerta.
	resp, sale := doJSON(t, app, http.MethodPost, "/api/sales", cashier, map[string]any{
		"payment_method": "cash",
		"items": []map[string]any{
			{"product_id": productID, "quantity": 6},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	saleID, _ := sale["id"].(string)
	require.NotEmpty(t, saleID)
	assert.Equal(t, "completed", sale["status"])

	resp, alerts := doJSON(t, app, http.MethodGet, "/api/alerts?status=active", cashier, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), alerts["total"])

	// Vender más de lo disponible es 409 con detalle.
	resp, errBody := doJSON(t, app, http.MethodPost, "/api/sales", cashier, map[string]any{
		"payment_method": "cash",
		"items": []map[string]any{
			{"product_id": productID, "quantity": 99},
		},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody["code"])

	// Historial de movimientos: ajuste + venta.
	resp, movs := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/stock/%s/movements", productID), manager, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), movs["total"])

	// Reembolso total (solo manager/admin): el stock vuelve y la alerta se resuelve.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/sales/"+saleID+"/refund", cashier, map[string]any{})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, refund := doJSON(t, app, http.MethodPost, "/api/sales/"+saleID+"/refund", manager, map[string]any{
		"reason": "producto vencido",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "refunded", refund["status"])
	assert.Equal(t, float64(6), refund["restocked_units"])

	resp, line = doJSON(t, app, http.MethodGet, "/api/stock/"+productID, cashier, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(10), line["quantity"])

	resp, alerts = doJSON(t, app, http.MethodGet, "/api/alerts?status=active", cashier, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), alerts["total"])

	// Dashboard del día.
	resp, summary := doJSON(t, app, http.MethodGet, "/api/dashboard/summary", manager, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), summary["total_products"])
	assert.Equal(t, float64(1), summary["sales_today"])
}

func TestAPI_RutasProtegidasSinTokenRetornan401(t *testing.T) {
	app := buildAPI(t)

	for _, path := range []string{"/api/products", "/api/alerts", "/api/dashboard/summary"} {
		resp, _ := doJSON(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}
