package app

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/duetags/duetags/internal/adapters/artfetch"
	"github.com/duetags/duetags/internal/adapters/httpserver"
	"github.com/duetags/duetags/internal/adapters/payments/mercadopago"
	"github.com/duetags/duetags/internal/adapters/repo/postgres"
	"github.com/duetags/duetags/internal/adapters/storage/localfs"
	"github.com/duetags/duetags/internal/catalog"
	"github.com/duetags/duetags/internal/domain"
	"github.com/duetags/duetags/internal/usecase"
)

type App struct {
	DB          *gorm.DB
	Catalog     *catalog.Catalog
	KitUC       *usecase.KitUC
	OrderUC     *usecase.OrderUC
	PaymentUC   *usecase.PaymentUC
	ExportUC    *usecase.ExportUC
	Storage     domain.FileStorage
	Signer      *localfs.Signer
	Customers   domain.CustomerRepo
	Fetcher     *artfetch.Fetcher
	OAuthConfig *oauth2.Config
}

func NewApp(db *gorm.DB) (*App, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, err
	}

	kitRepo := postgres.NewKitRepo(db)
	themeRepo := postgres.NewThemeRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	exportRepo := postgres.NewLabelExportRepo(db)
	custRepo := postgres.NewCustomerRepo(db)

	storageDir := os.Getenv("STORAGE_DIR")
	if storageDir == "" {
		storageDir = "data/etiquetas"
	}
	_ = os.MkdirAll(storageDir, 0755)
	storage := localfs.New(storageDir)
	signer := localfs.NewSigner(os.Getenv("SECRET_KEY"))

	token := os.Getenv("MP_ACCESS_TOKEN")
	appEnv := strings.ToLower(os.Getenv("APP_ENV"))
	if appEnv == "production" || appEnv == "prod" {
		if prodTok := os.Getenv("PROD_ACCESS_TOKEN"); prodTok != "" {
			token = prodTok
		}
	}
	payment := mercadopago.NewGateway(token)

	var oauthCfg *oauth2.Config
	googleID := os.Getenv("GOOGLE_CLIENT_ID")
	googleSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if googleID != "" && googleSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     googleID,
			ClientSecret: googleSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	fetcher := artfetch.New()
	app := &App{
		DB:          db,
		Catalog:     cat,
		Storage:     storage,
		Signer:      signer,
		Customers:   custRepo,
		Fetcher:     fetcher,
		OAuthConfig: oauthCfg,
	}
	app.KitUC = &usecase.KitUC{Kits: kitRepo, Themes: themeRepo, Catalog: cat}
	app.OrderUC = &usecase.OrderUC{Orders: orderRepo, Kits: kitRepo, Catalog: cat, Storage: storage, Characters: fetcher}
	app.PaymentUC = &usecase.PaymentUC{Orders: orderRepo, Gateway: payment}
	app.ExportUC = &usecase.ExportUC{Orders: orderRepo, Exports: exportRepo, Storage: storage}
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.KitUC, a.OrderUC, a.PaymentUC, a.ExportUC, a.Customers, a.Storage, a.Signer, a.Fetcher, a.OAuthConfig)
}

func (a *App) MigrateAndSeed() error {
	if err := a.DB.AutoMigrate(
		&domain.Theme{}, &domain.Kit{}, &domain.KitLabel{}, &domain.Image{},
		&domain.Customer{}, &domain.Order{}, &domain.OrderItem{}, &domain.LabelExport{},
	); err != nil {
		return err
	}

	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders(customer_id)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_orders_mp_status ON orders(mp_status)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_label_exports_order_id ON label_exports(order_id)").Error

	return a.seedFromCatalog()
}

// seedFromCatalog populates themes and kits from the embedded dataset on an
// empty database. Existing rows are left untouched so admin edits survive.
func (a *App) seedFromCatalog() error {
	kitCount, err := a.KitUC.Kits.Count(context.Background())
	if err != nil {
		return err
	}
	if kitCount > 0 {
		return nil
	}

	themeIDs := map[string]uuid.UUID{}
	for _, ts := range a.Catalog.Themes {
		t := &domain.Theme{
			ID:      uuid.New(),
			Slug:    ts.Slug,
			Name:    ts.Name,
			ArtURL:  ts.ArtURL,
			Palette: ts.Palette,
			Active:  true,
		}
		if err := a.KitUC.Themes.Save(context.Background(), t); err != nil {
			return err
		}
		themeIDs[ts.Slug] = t.ID
	}

	for _, ks := range a.Catalog.Kits {
		k := &domain.Kit{
			ID:        uuid.New(),
			Slug:      ks.Slug,
			Name:      ks.Name,
			ShortDesc: ks.ShortDesc,
			Price:     ks.Price,
			ThemeID:   themeIDs[ks.Theme],
			Active:    true,
		}
		for _, kl := range ks.Labels {
			k.Labels = append(k.Labels, domain.KitLabel{
				ID:         uuid.New(),
				KitID:      k.ID,
				TemplateID: kl.Template,
				Quantity:   kl.Quantity,
			})
		}
		if err := a.KitUC.Kits.Save(context.Background(), k); err != nil {
			return err
		}
	}
	return nil
}
