package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/pliu/unsent/internal/auth"
	"github.com/pliu/unsent/internal/config"
	"github.com/pliu/unsent/internal/crypto"
	"github.com/pliu/unsent/internal/handlers"
	"github.com/pliu/unsent/internal/middleware"
	"github.com/pliu/unsent/internal/models"
	"github.com/pliu/unsent/internal/store"
	"github.com/pliu/unsent/internal/store/sqlstore"
	"github.com/pliu/unsent/internal/ws"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

var createAdmin = flag.String("create-admin", "", "create an admin account with the given username and exit")

func main() {
	cfg := config.Load(flag.CommandLine)
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	codec := crypto.New(cfg.SecretKey)
	db, err := sqlstore.New(cfg.DriverName, cfg.DataSourceName, codec)
	if err != nil {
		log.Fatal(err)
	}

	// Seed the Owner account so the system is never without an admin.
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.BootstrapPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.BootstrapAdmin(cfg.BootstrapUsername, string(hash)); err != nil {
		log.Fatal(err)
	}

	if *createAdmin != "" {
		if err := runCreateAdmin(db, *createAdmin); err != nil {
			log.Fatal(err)
		}
		return
	}

	tokens := auth.NewTokenService(codec, db)

	hub := ws.NewHub()
	go hub.Run()

	r := handlers.NewRouter(db, tokens, hub)

	// Wrapped outside the router so CORS preflights and 405s get the
	// headers too.
	handler := middleware.LoggingMiddleware(middleware.CORSMiddleware(r))

	log.Println("Starting server on", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, handler))
}

// runCreateAdmin prompts for a password without echo and creates a full-
// permission admin with the given username.
func runCreateAdmin(db *sqlstore.SQLStore, username string) error {
	fmt.Print("Enter password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return err
	}
	if len(password) == 0 {
		return errors.New("password must not be empty")
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	id, err := db.CreateAdmin(&models.Admin{
		Username:     username,
		PasswordHash: string(hash),
		Role:         "Admin",
		Permissions:  models.AllPermissions(),
	})
	if errors.Is(err, store.ErrDuplicate) {
		return fmt.Errorf("admin %q already exists", username)
	}
	if err != nil {
		return err
	}

	log.Printf("created admin %q (id %d)", username, id)
	return nil
}
