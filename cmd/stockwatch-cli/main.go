// Command stockwatch-cli is the scriptable client for the stockwatch
// backend: account management, stock listings, and watchlist edits from the
// shell.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"stockwatch/internal/api"
	"stockwatch/internal/config"
	"stockwatch/internal/credstore"
	"stockwatch/internal/dashboard"
	"stockwatch/internal/domain"
	"stockwatch/internal/session"
	"stockwatch/internal/store"
	"stockwatch/internal/util"
	"stockwatch/internal/watchlist"
)

const version = "0.1.0"

// app bundles the shared dependencies every command needs.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	creds  *credstore.Store
	client *api.Client
	sess   *session.Manager
}

func main() {
	godotenv.Load()

	configPath := flag.String("config", os.Getenv("STOCKWATCH_CONFIG"), "path to config file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: stockwatch-cli [-config FILE] <command> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  version                 Print the CLI version\n")
		fmt.Fprintf(os.Stderr, "  register                Create a new account\n")
		fmt.Fprintf(os.Stderr, "  login                   Log in and store the access token\n")
		fmt.Fprintf(os.Stderr, "  logout                  Discard the stored access token\n")
		fmt.Fprintf(os.Stderr, "  whoami                  Show the logged-in user\n")
		fmt.Fprintf(os.Stderr, "  profile                 Update your profile (name, email)\n")
		fmt.Fprintf(os.Stderr, "  preferences             Update sector and notification preferences\n")
		fmt.Fprintf(os.Stderr, "  companies               List the company catalog\n")
		fmt.Fprintf(os.Stderr, "  stocks                  List stock records with prices\n")
		fmt.Fprintf(os.Stderr, "  watchlist               Show your watchlist\n")
		fmt.Fprintf(os.Stderr, "  watchlist add SYMBOL    Add a symbol to your watchlist\n")
		fmt.Fprintf(os.Stderr, "  watchlist remove SYMBOL Remove a symbol from your watchlist\n")
		fmt.Fprintf(os.Stderr, "\n")
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if args[0] == "version" {
		fmt.Printf("stockwatch-cli %s\n", version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	creds := credstore.New(cfg.Storage.StateDir)
	client := api.NewClient(cfg.API.BaseURL, creds,
		time.Duration(cfg.API.TimeoutSeconds)*time.Second, logger)

	a := &app{
		cfg:    cfg,
		log:    logger,
		creds:  creds,
		client: client,
		sess:   session.New(client, creds, logger),
	}

	ctx := context.Background()

	switch args[0] {
	case "register":
		err = a.register(ctx, args[1:])
	case "login":
		err = a.login(ctx, args[1:])
	case "logout":
		a.sess.Logout()
		fmt.Println("logged out")
	case "whoami":
		err = a.whoami(ctx)
	case "profile":
		err = a.profile(ctx, args[1:])
	case "preferences":
		err = a.preferences(ctx, args[1:])
	case "companies":
		err = a.companies(ctx)
	case "stocks":
		err = a.stocks(ctx, args[1:])
	case "watchlist":
		err = a.watchlistCmd(ctx, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "display name")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		return fmt.Errorf("register requires -email and -password")
	}

	user, err := a.client.Register(ctx, *email, *name, *password)
	if err != nil {
		return err
	}
	fmt.Printf("registered %s (%s)\n", user.DisplayName(), user.Email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		return fmt.Errorf("login requires -email and -password")
	}

	tok, err := a.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := a.sess.Login(ctx, tok.AccessToken); err != nil {
		return err
	}

	fmt.Printf("logged in as %s\n", a.sess.User().DisplayName())
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	if err := a.sess.Refresh(ctx); err != nil {
		return err
	}
	user := a.sess.User()
	if user == nil {
		fmt.Println("not logged in")
		return nil
	}

	verified := "unverified"
	if user.IsVerified {
		verified = "verified"
	}
	fmt.Printf("%s <%s>\n", user.DisplayName(), user.Email)
	fmt.Printf("  id:        %s\n", user.ID)
	fmt.Printf("  status:    %s\n", verified)
	fmt.Printf("  watchlist: %d symbols\n", user.WatchlistCount())
	return nil
}

func (a *app) profile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	name := fs.String("name", "", "new display name")
	email := fs.String("email", "", "new account email")
	password := fs.String("password", "", "new account password")
	fs.Parse(args)

	var upd domain.UserUpdate
	if *name != "" {
		upd.Name = name
	}
	if *email != "" {
		upd.Email = email
	}
	if *password != "" {
		upd.Password = password
	}
	if upd.Name == nil && upd.Email == nil && upd.Password == nil {
		return fmt.Errorf("profile requires at least one of -name, -email, -password")
	}

	if err := a.sess.Refresh(ctx); err != nil {
		return err
	}
	user := a.sess.User()
	if user == nil {
		return fmt.Errorf("not logged in")
	}

	updated, err := a.client.UpdateUser(ctx, user.ID, upd)
	if err != nil {
		return err
	}
	fmt.Printf("updated profile for %s <%s>\n", updated.DisplayName(), updated.Email)
	return nil
}

func (a *app) preferences(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("preferences", flag.ExitOnError)
	sectors := fs.String("sectors", "", "comma-separated preferred sectors")
	emailNotif := fs.String("email-notifications", "", "enable email notifications (true|false)")
	priceAlerts := fs.String("price-alerts", "", "enable price alerts (true|false)")
	newsUpdates := fs.String("news-updates", "", "enable news updates (true|false)")
	fs.Parse(args)

	var upd domain.PreferencesUpdate
	if *sectors != "" {
		for _, s := range strings.Split(*sectors, ",") {
			if s = strings.TrimSpace(s); s != "" {
				upd.PreferredSectors = append(upd.PreferredSectors, s)
			}
		}
	}
	for _, f := range []struct {
		raw  string
		dst  **bool
		name string
	}{
		{*emailNotif, &upd.EmailNotifications, "-email-notifications"},
		{*priceAlerts, &upd.PriceAlerts, "-price-alerts"},
		{*newsUpdates, &upd.NewsUpdates, "-news-updates"},
	} {
		if f.raw == "" {
			continue
		}
		v, err := strconv.ParseBool(f.raw)
		if err != nil {
			return fmt.Errorf("%s: %q is not a boolean", f.name, f.raw)
		}
		*f.dst = &v
	}
	if upd.PreferredSectors == nil && upd.EmailNotifications == nil &&
		upd.PriceAlerts == nil && upd.NewsUpdates == nil {
		return fmt.Errorf("preferences requires at least one flag")
	}

	if err := a.sess.Refresh(ctx); err != nil {
		return err
	}
	user := a.sess.User()
	if user == nil {
		return fmt.Errorf("not logged in")
	}

	updated, err := a.client.UpdatePreferences(ctx, user.ID, upd)
	if err != nil {
		return err
	}
	fmt.Printf("updated preferences: %d preferred sectors\n", len(updated.PreferredSectors))
	return nil
}

func (a *app) companies(ctx context.Context) error {
	companies, err := a.client.Companies(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%-8s %s\n", "Symbol", "Name")
	for _, co := range companies {
		fmt.Printf("%-8s %s\n", co.Symbol, co.Name)
	}
	fmt.Printf("\n%d companies\n", len(companies))
	return nil
}

func (a *app) stocks(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stocks", flag.ExitOnError)
	skip := fs.Int("skip", 0, "records to skip")
	limit := fs.Int("limit", 100, "maximum records to return")
	fs.Parse(args)

	stocks, err := a.client.Stocks(ctx, *skip, *limit)
	if err != nil {
		return err
	}

	fmt.Printf("%-8s %-28s %10s %8s %12s %10s  %s\n",
		"Symbol", "Name", "Price", "Change", "Volume", "MktCap", "Sector")
	for _, s := range stocks {
		name := dashboard.Truncate(s.Name, 28)
		fmt.Printf("%-8s %-28s %10s %8s %12s %10s  %s\n",
			s.Symbol,
			name,
			dashboard.FormatPrice(s.Price),
			dashboard.FormatChange(s.ChangePercent),
			dashboard.FormatVolume(s.Volume),
			dashboard.FormatMarketCap(s.MarketCap),
			s.Sector,
		)
	}

	st := dashboard.Compute(stocks)
	fmt.Printf("\n%d stocks, %d gaining, %d losing, avg change %s\n",
		st.Total, st.Gaining, st.Losing, dashboard.FormatChange(st.AvgChange))
	return nil
}

func (a *app) watchlistCmd(ctx context.Context, args []string) error {
	if err := a.sess.Refresh(ctx); err != nil {
		return err
	}
	user := a.sess.User()
	if user == nil {
		return fmt.Errorf("not logged in")
	}

	var cache watchlist.Cache
	if c, err := store.NewSQLiteCache(a.cfg.Storage.CachePath); err != nil {
		a.log.Warn("opening offline cache", "error", err)
	} else {
		cache = c
		defer c.Close()
	}

	wl := watchlist.New(a.client, cache, a.log, user.ID)
	wl.LoadAll(ctx)

	if len(args) >= 2 {
		symbol := args[1]
		switch args[0] {
		case "add":
			if err := wl.Add(ctx, symbol); err != nil {
				return err
			}
			fmt.Printf("added %s\n", symbol)
		case "remove":
			if err := wl.Remove(ctx, symbol); err != nil {
				return err
			}
			fmt.Printf("removed %s\n", symbol)
		default:
			return fmt.Errorf("unknown watchlist subcommand: %s", args[0])
		}
	}

	symbols := wl.Symbols()
	if len(symbols) == 0 {
		fmt.Println("watchlist is empty")
		return nil
	}

	fmt.Printf("%-8s %s\n", "Symbol", "Name")
	for _, sym := range symbols {
		name := ""
		if co, ok := wl.Company(sym); ok {
			name = co.Name
		}
		fmt.Printf("%-8s %s\n", sym, name)
	}
	fmt.Printf("\n%d symbols\n", len(symbols))
	return nil
}
