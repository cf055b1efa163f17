package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/camstore/store_backend/config"
	"github.com/camstore/store_backend/models"
	"github.com/camstore/store_backend/workflow"
	"github.com/shopspring/decimal"
)

// End-to-end ledger regression against a real MySQL. Redis is left
// unconfigured on purpose: the per-product lock degrades to nil and the
// DB transaction is the serialization point, which is the single-process
// deployment shape.
func TestSaleWorkflow_FifoReplenishmentRegression(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()
	logger := config.GetLogger()

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "camstore_test")

	config.ConnectDatabaseWithRetry()
	models.MigrateTable()

	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{
		Name:     "Daily Dairy Co.",
		Category: "Dairy",
	})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}

	product, err := models.CreateProduct(ctx, &models.NewProduct{
		ItemId:   "FDA15",
		Name:     "Whole Milk 1L",
		Category: "Dairy",
		Mrp:      decimal.RequireFromString("2.50"),
		MinStock: 10,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	// Three batches received newest-expiry-first so FIFO order cannot
	// come from insertion order.
	mkBatch := func(qty, daysUntilExpiry int) *models.Batch {
		t.Helper()
		b, err := models.CreateBatch(ctx, &models.NewBatch{
			ProductId:  product.ID,
			Quantity:   qty,
			CostPrice:  decimal.RequireFromString("1.50"),
			ExpiryDate: time.Now().UTC().AddDate(0, 0, daysUntilExpiry),
		})
		if err != nil {
			t.Fatalf("CreateBatch(qty=%d, days=%d): %v", qty, daysUntilExpiry, err)
		}
		return b
	}
	batchA := mkBatch(50, 60)
	batchB := mkBatch(20, 10)
	batchC := mkBatch(10, -5)

	// Sale of 15 drains the expired batch C first, then takes 5 from B.
	record, deductions, err := workflow.ProcessSale(ctx, logger, &models.NewTransaction{
		ProductId:       product.ID,
		TransactionType: models.TransactionTypeSale,
		Quantity:        15,
	})
	if err != nil {
		t.Fatalf("ProcessSale: %v", err)
	}
	if record.TransactionType != models.TransactionTypeSale || record.Quantity != 15 {
		t.Fatalf("sale record = %+v", record)
	}
	if want := decimal.RequireFromString("37.50"); !record.TotalAmount.Equal(want) {
		t.Errorf("sale total = %s, want %s", record.TotalAmount, want)
	}
	if len(deductions) != 2 || deductions[0].BatchId != batchC.ID || deductions[0].Quantity != 10 ||
		deductions[1].BatchId != batchB.ID || deductions[1].Quantity != 5 {
		t.Fatalf("deductions = %+v, want 10 from C then 5 from B", deductions)
	}

	reloadQty := func(id int) int {
		t.Helper()
		b, err := models.GetBatch(ctx, id)
		if err != nil {
			t.Fatalf("GetBatch(%d): %v", id, err)
		}
		return b.Quantity
	}
	if got := reloadQty(batchC.ID); got != 0 {
		t.Errorf("batch C quantity = %d, want 0", got)
	}
	if got := reloadQty(batchB.ID); got != 15 {
		t.Errorf("batch B quantity = %d, want 15", got)
	}
	if got := reloadQty(batchA.ID); got != 50 {
		t.Errorf("batch A quantity = %d, want untouched 50", got)
	}

	// Overselling fails the whole sale and mutates nothing.
	_, _, err = workflow.ProcessSale(ctx, logger, &models.NewTransaction{
		ProductId:       product.ID,
		TransactionType: models.TransactionTypeSale,
		Quantity:        1000,
	})
	if !errors.Is(err, models.ErrInsufficientStock) {
		t.Fatalf("oversell err = %v, want ErrInsufficientStock", err)
	}
	if got := reloadQty(batchB.ID); got != 15 {
		t.Errorf("batch B quantity after failed sale = %d, want 15", got)
	}

	// Wastage beyond a batch's remainder clamps at zero and still records.
	wastage, err := workflow.ProcessWastage(ctx, logger, &models.NewTransaction{
		ProductId:       product.ID,
		BatchId:         &batchB.ID,
		TransactionType: models.TransactionTypeWastage,
		Quantity:        100,
	})
	if err != nil {
		t.Fatalf("ProcessWastage: %v", err)
	}
	if wastage.Quantity != 100 {
		t.Errorf("wastage record quantity = %d, want the requested 100", wastage.Quantity)
	}
	if got := reloadQty(batchB.ID); got != 0 {
		t.Errorf("batch B quantity after wastage = %d, want clamped 0", got)
	}

	// Drive stock low enough with recent sales that the post-sale
	// trigger projects an imminent stock-out and drafts an order.
	for i := 0; i < 2; i++ {
		if _, _, err := workflow.ProcessSale(ctx, logger, &models.NewTransaction{
			ProductId:       product.ID,
			TransactionType: models.TransactionTypeSale,
			Quantity:        24,
		}); err != nil {
			t.Fatalf("velocity sale %d: %v", i, err)
		}
	}

	orders, err := models.ListPurchaseOrders(ctx, models.PurchaseOrderStatusDraft)
	if err != nil {
		t.Fatalf("ListPurchaseOrders: %v", err)
	}
	var drafted []*models.PurchaseOrderView
	for _, o := range orders {
		if o.ProductId == product.ID {
			drafted = append(drafted, o)
		}
	}
	if len(drafted) != 1 {
		t.Fatalf("draft orders for product = %d, want exactly 1 (dedup)", len(drafted))
	}
	if drafted[0].SupplierId != supplier.ID {
		t.Errorf("draft order supplier = %d, want %d", drafted[0].SupplierId, supplier.ID)
	}
	if drafted[0].Quantity < 20 {
		t.Errorf("draft order quantity = %d, want >= minimum 20", drafted[0].Quantity)
	}

	// More sales while the draft is active must not create a second one.
	if _, _, err := workflow.ProcessSale(ctx, logger, &models.NewTransaction{
		ProductId:       product.ID,
		TransactionType: models.TransactionTypeSale,
		Quantity:        1,
	}); err != nil {
		t.Fatalf("post-draft sale: %v", err)
	}
	orders, err = models.ListPurchaseOrders(ctx, models.PurchaseOrderStatusDraft)
	if err != nil {
		t.Fatalf("ListPurchaseOrders: %v", err)
	}
	count := 0
	for _, o := range orders {
		if o.ProductId == product.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("draft orders after another sale = %d, want still 1", count)
	}
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("camstore-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=camstore_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
