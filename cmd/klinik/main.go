// Package main runs the clinic device client: an interactive shell over the
// local snapshot store with background sync against the relay.
package main

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/klinikapp/klinikd/internal/client/auth"
	"github.com/klinikapp/klinikd/internal/client/notify"
	"github.com/klinikapp/klinikd/internal/client/prefs"
	"github.com/klinikapp/klinikd/internal/client/provision"
	"github.com/klinikapp/klinikd/internal/client/state"
	"github.com/klinikapp/klinikd/internal/client/store"
	syncengine "github.com/klinikapp/klinikd/internal/client/sync"
	"github.com/klinikapp/klinikd/internal/logger"
	"github.com/klinikapp/klinikd/internal/models"
	"github.com/klinikapp/klinikd/internal/relay"
)

var (
	version   string
	buildDate string
)

// seedFirstRun populates an empty store with clinic settings and a default
// administrator so a fresh device is usable before any sync.
func seedFirstRun(st *state.State, log *zap.Logger) {
	if len(st.Users()) > 0 {
		return
	}
	st.SetClinicSettings(models.DefaultClinicSettings())
	admin, err := auth.NewUser(uuid.NewString(), "Administrator", "admin", "admin", "Admin", "")
	if err != nil {
		log.Error("cannot seed admin user", zap.Error(err))
		return
	}
	st.UpsertUser(admin)
	fmt.Println("First run: created default user admin/admin. Change the password.")
}

// repl runs the interactive shell loop, accepting commands to inspect and
// control synchronization.
func repl(st *state.State, kv *store.Store, engine *syncengine.Engine, flow *provision.Flow, log *zap.Logger) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("klinik> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, status, generate, connect <id>, disconnect, pull, push, export <file>, import <file>, reset, exit")
		case "status":
			printStatus(st, engine)
		case "generate":
			id, err := flow.Generate(context.Background())
			if err != nil {
				fmt.Println("Generate failed:", err)
				continue
			}
			fmt.Println("Clinic ID:", id)
			fmt.Println("Enter it on other devices with: connect", id)
		case "connect":
			if len(args) < 2 {
				fmt.Println("Usage: connect <clinic-id>")
				continue
			}
			if err := flow.Provision(context.Background(), args[1]); err != nil {
				switch {
				case errors.Is(err, provision.ErrValidation):
					fmt.Println("Invalid clinic ID")
				case errors.Is(err, relay.ErrNotFound):
					fmt.Println("Clinic ID not found on the relay")
				default:
					fmt.Println("Connect failed:", err)
				}
				continue
			}
			fmt.Println("Connected. Local data replaced with the clinic snapshot.")
		case "disconnect":
			engine.Disable()
			cs := st.ClinicSettings()
			cs.IsCloudEnabled = false
			st.SetClinicSettings(cs)
			fmt.Println("Sync disabled. Local data kept.")
		case "pull":
			if err := engine.Pull(context.Background()); err != nil {
				fmt.Println("Pull failed:", err)
			} else {
				fmt.Println("Pulled latest snapshot")
			}
		case "push":
			if err := engine.Push(context.Background()); err != nil {
				fmt.Println("Push failed:", err)
			} else {
				fmt.Println("Pushed local snapshot")
			}
		case "export":
			if len(args) < 2 {
				fmt.Println("Usage: export <file>")
				continue
			}
			f, err := os.Create(args[1])
			if err != nil {
				fmt.Println("Export failed:", err)
				continue
			}
			err = flow.Export(f)
			_ = f.Close()
			if err != nil {
				fmt.Println("Export failed:", err)
			} else {
				fmt.Println("Backup written to", args[1])
			}
		case "import":
			if len(args) < 2 {
				fmt.Println("Usage: import <file>")
				continue
			}
			fmt.Print("Importing replaces all local data. Continue? [y/N] ")
			if !scanner.Scan() || strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
				fmt.Println("Import cancelled")
				continue
			}
			f, err := os.Open(args[1])
			if err != nil {
				fmt.Println("Import failed:", err)
				continue
			}
			err = flow.Import(f)
			_ = f.Close()
			if err != nil {
				fmt.Println("Import failed:", err)
			} else {
				fmt.Println("Backup restored")
			}
		case "reset":
			fmt.Print("Reset wipes all data on this device and logs everyone out. Continue? [y/N] ")
			if !scanner.Scan() || strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
				fmt.Println("Reset cancelled")
				continue
			}
			engine.Disable()
			if err := kv.Clear(); err != nil {
				fmt.Println("Reset failed:", err)
				continue
			}
			st.Reload()
			seedFirstRun(st, log)
			fmt.Println("Local data cleared")
		case "exit":
			return
		default:
			fmt.Println("Unknown command. Type 'help'.")
		}
	}
}

func printStatus(st *state.State, engine *syncengine.Engine) {
	cs := st.ClinicSettings()
	fmt.Println("Clinic:   ", cs.Name)
	if engine.ClinicID() != "" {
		fmt.Println("Clinic ID:", engine.ClinicID())
	}
	fmt.Println("Sync:     ", engine.Status().Indicator())
	if err := engine.Err(); err != nil {
		fmt.Println("Last err: ", err)
	}
	fmt.Printf("Patients: %d  Queue: %d  Transactions: %d\n",
		len(st.Patients()), len(st.Queue()), len(st.Transactions()))
}

func main() {
	prefsPath := flag.String("config", prefs.DefaultPath(), "path to preferences file")
	flag.Parse()

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	p, err := prefs.Load(*prefsPath)
	if err != nil {
		zapLogger.Fatal("cannot load preferences", zap.Error(err))
	}
	if err := os.MkdirAll(p.DataDir, 0o700); err != nil {
		zapLogger.Fatal("cannot create data dir", zap.Error(err))
	}

	st, err := store.Open(filepath.Join(p.DataDir, "klinik.db"), zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot open local store", zap.Error(err))
	}
	defer func() { _ = st.Close() }()

	hub := notify.NewHub()
	instance := hub.Register()

	appState := state.New(st, instance, zapLogger)
	seedFirstRun(appState, zapLogger)

	// Rehydrate when another window in this process commits a change.
	cancelReload := instance.Subscribe(func(notify.Event) { appState.Reload() })
	defer cancelReload()

	relayClient, err := relay.NewClient(p.RelayURL)
	if err != nil {
		zapLogger.Fatal("bad relay URL", zap.Error(err))
	}

	engine := syncengine.New(appState, relayClient, instance, zapLogger, syncengine.Options{
		Debounce:     p.Debounce(),
		PullInterval: p.PullInterval(),
	})
	defer engine.Close()

	flow := provision.New(appState, relayClient, engine, zapLogger)

	// Resume sync if this device was connected before.
	cs := appState.ClinicSettings()
	if cs.IsCloudEnabled && cs.KlinikID != "" {
		if err := engine.Enable(cs.KlinikID); err != nil {
			zapLogger.Warn("cannot resume sync", zap.Error(err))
		}
	}

	repl(appState, st, engine, flow, zapLogger)
}
