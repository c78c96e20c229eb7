package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jrsteele09/go-storefront-client/app"
	"github.com/jrsteele09/go-storefront-client/auth"
	"github.com/jrsteele09/go-storefront-client/cart"
	fakecartremote "github.com/jrsteele09/go-storefront-client/cart/repofake"
	"github.com/jrsteele09/go-storefront-client/catalog"
	"github.com/jrsteele09/go-storefront-client/internal/config"
	"github.com/jrsteele09/go-storefront-client/pricing"
	"github.com/jrsteele09/go-storefront-client/rest"
	"github.com/jrsteele09/go-storefront-client/storage"
	"github.com/jrsteele09/go-storefront-client/storage/filestore"
	"github.com/jrsteele09/go-storefront-client/storage/redisstore"
	fakestoragerepo "github.com/jrsteele09/go-storefront-client/storage/repofake"
	"github.com/jrsteele09/go-storefront-client/token"
	"github.com/rs/zerolog/log"
)

// env is everything a command runs against.
type env struct {
	app     *app.App
	authAPI *auth.API
	catalog *catalog.PublicClient
	out     io.Writer
	json    bool
}

func newEnv(ctx context.Context, cfg config.Config, opts globalOptions, stdout, stderr io.Writer) (*env, func(), error) {
	repo, cleanup, err := newSessionRepo(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	store := token.NewStore(repo, token.WithExpiryHook(func(reason error) {
		log.Info().AnErr("reason", reason).Msg("stored session discarded")
	}))

	base := cfg.GetAPIBaseURL()
	clientOptions := func(group string, withToken bool) []rest.Option {
		options := []rest.Option{
			rest.WithTimeout(cfg.GetRequestTimeout()),
			rest.WithBreaker(group, cfg.GetBreakerMaxFailures(), cfg.GetBreakerOpenTimeout()),
		}
		if withToken {
			options = append(options, rest.WithTokenSource(store.TokenSource(ctx)))
		}
		return options
	}

	userClient := rest.New(base+"/user", clientOptions("user", true)...)
	adminClient := rest.New(base+"/admin", clientOptions("admin", true)...)
	publicClient := rest.New(base+"/public", clientOptions("public", false)...)
	authAPI := auth.NewAPI(rest.New(base+"/auth", rest.WithTimeout(cfg.GetRequestTimeout())), userClient)
	publicCatalog := catalog.NewPublicClient(publicClient)

	var remote cart.Remote = cart.NewRESTRemote(userClient)
	if opts.offline {
		log.Info().Msg("offline mode: cart changes stay in this process")
		remote = fakecartremote.NewFakeRemote()
	}

	a, err := app.New(app.Deps{
		Store:   store,
		Remote:  remote,
		Auth:    auth.NewService(authAPI, store),
		Catalog: publicCatalog,
		Admin:   catalog.NewAdminClient(adminClient),
	},
		app.WithPolicy(pricing.Policy{
			FreeShippingThreshold: cfg.GetFreeShippingThreshold(),
			FlatShipping:          cfg.GetFlatShipping(),
			TaxRate:               cfg.GetTaxRate(),
		}),
		app.WithPromo(pricing.NewPromoEvaluator(cfg.GetPromoCode(), cfg.GetPromoRate())),
		app.WithNavigator(app.NavigatorFunc(func(route string) {
			switch route {
			case auth.LoginRoute:
				fmt.Fprintln(stderr, "Your session has ended. Sign in again with: storefront login <email> <password>")
			case auth.HomeRoute:
				fmt.Fprintln(stderr, "This area needs an admin account.")
			}
		})),
		app.WithSessionValidation(),
	)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return &env{
		app:     a,
		authAPI: authAPI,
		catalog: publicCatalog,
		out:     stdout,
		json:    opts.json,
	}, cleanup, nil
}

func newSessionRepo(ctx context.Context, cfg config.Config) (storage.Repo, func(), error) {
	switch cfg.GetStorageBackend() {
	case config.StorageRedis:
		store, err := redisstore.Connect(ctx, cfg.GetRedisAddr(), cfg.GetRedisPassword(), cfg.GetRedisDB(), cfg.GetRedisKeyPrefix())
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Err(err).Msg("closing redis session store")
			}
		}, nil
	case config.StorageMemory:
		return fakestoragerepo.NewFakeStorageRepo(), func() {}, nil
	default:
		return filestore.New(cfg.GetSessionFile()), func() {}, nil
	}
}

// print writes v as JSON in --json mode and through text otherwise.
func (e *env) print(v any, text func(w io.Writer)) error {
	if e.json {
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(e.out)
	return nil
}
