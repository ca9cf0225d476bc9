// realex-cli runs a single gateway operation from the command line. It is a
// diagnostic tool for verifying merchant credentials and connectivity; the
// adapter package is the product.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cobaltpay/realex-gateway/internal/adapters/ports"
	"github.com/cobaltpay/realex-gateway/internal/adapters/realex"
	"github.com/cobaltpay/realex-gateway/internal/config"
	"github.com/cobaltpay/realex-gateway/internal/domain/models"
	"github.com/cobaltpay/realex-gateway/internal/util"
)

func main() {
	var (
		operation  = flag.String("op", "authorize", "operation: purchase, authorize, capture, refund, void")
		orderID    = flag.String("order-id", "", "order id (generated when empty)")
		amountStr  = flag.String("amount", "1.00", "major-unit amount, e.g. 10.99")
		currency   = flag.String("currency", "EUR", "ISO currency code")
		cardNumber = flag.String("card-number", "", "card number (purchase/authorize)")
		cardMonth  = flag.Int("card-month", 0, "card expiry month")
		cardYear   = flag.Int("card-year", 0, "card expiry year")
		cardName   = flag.String("card-name", "", "cardholder name")
		cardBrand  = flag.String("card-brand", "visa", "card brand")
		cardCVV    = flag.String("card-cvv", "", "card verification value")
		authToken  = flag.String("authorization", "", "authorization token (capture/refund/void)")
	)
	flag.Parse()

	// local .env is optional
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Logger)
	defer logger.Sync()

	creds, err := realex.NewMerchantCredentials(realex.CredentialsConfig{
		Login:        cfg.Merchant.Login,
		Secret:       cfg.Merchant.Secret,
		Account:      cfg.Merchant.Account,
		RebateSecret: cfg.Merchant.RebateSecret,
	})
	if err != nil {
		logger.Fatal("invalid merchant credentials", zap.Error(err))
	}

	gatewayCfg := realex.DefaultConfig()
	if cfg.Gateway.URL != "" {
		gatewayCfg.URL = cfg.Gateway.URL
	}
	if cfg.Gateway.VaultURL != "" {
		gatewayCfg.VaultURL = cfg.Gateway.VaultURL
	}
	gatewayCfg.Timeout = time.Duration(cfg.Gateway.Timeout) * time.Second

	adapter := realex.NewGatewayAdapter(gatewayCfg, creds, nil, logger)

	major, err := decimal.NewFromString(*amountStr)
	if err != nil {
		logger.Fatal("invalid amount", zap.String("amount", *amountStr), zap.Error(err))
	}
	amount := models.NewMoney(major, *currency)

	order := *orderID
	if order == "" {
		order = util.NewOrderID()
		logger.Info("generated order id", zap.String("order_id", order))
	}

	card := models.CreditCard{
		Number:            *cardNumber,
		Month:             *cardMonth,
		Year:              *cardYear,
		Name:              *cardName,
		Brand:             models.CardBrand(*cardBrand),
		VerificationValue: *cardCVV,
	}

	ctx, cancel := context.WithTimeout(context.Background(), gatewayCfg.Timeout)
	defer cancel()

	var result *ports.GatewayResult
	switch *operation {
	case "purchase":
		result, err = adapter.Purchase(ctx, &ports.PurchaseRequest{OrderID: order, Amount: amount, Card: card})
	case "authorize":
		result, err = adapter.Authorize(ctx, &ports.AuthorizeRequest{OrderID: order, Amount: amount, Card: card})
	case "capture":
		result, err = adapter.Capture(ctx, &ports.CaptureRequest{Authorization: *authToken})
	case "refund":
		result, err = adapter.Refund(ctx, &ports.RefundRequest{Authorization: *authToken, Amount: amount})
	case "void":
		result, err = adapter.Void(ctx, &ports.VoidRequest{Authorization: *authToken})
	default:
		logger.Fatal("unknown operation", zap.String("op", *operation))
	}
	if err != nil {
		logger.Fatal("operation failed", zap.String("op", *operation), zap.Error(err))
	}

	fmt.Printf("approved:       %v\n", result.Success)
	fmt.Printf("result code:    %s\n", result.ResultCode)
	fmt.Printf("message:        %s\n", result.Message)
	fmt.Printf("authorization:  %s\n", result.Authorization)
	if result.TestMode {
		fmt.Println("test mode:      true")
	}
}

func initLogger(cfg config.LoggerConfig) *zap.Logger {
	if cfg.Development {
		logger, _ := zap.NewDevelopment()
		return logger
	}

	level := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(cfg.Level); err == nil {
		level = parsed
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zapCfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}
