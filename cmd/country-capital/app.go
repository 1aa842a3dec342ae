package main

import (
	"context"
	"fmt"
	"runtime"

	"country-capital/internal/config"
	"country-capital/internal/controllers"
	"country-capital/internal/imaging"
	"country-capital/internal/logger"
	"country-capital/internal/models"
	"country-capital/internal/services"
	"country-capital/internal/shutdown"
	"country-capital/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

// Application wires the lookup window to its controller and services
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	config  *config.Config

	controller *controllers.LookupController
	view       *views.MainView
	service    *services.LookupService
	shutdown   *shutdown.Manager
}

func runGUI(ctx context.Context, cfg *config.Config) error {
	application, err := NewApplication(ctx, cfg)
	if err != nil {
		return fmt.Errorf("application initialization failed: %w", err)
	}
	return application.Run()
}

// NewApplication creates and initializes the application using dependency injection
func NewApplication(ctx context.Context, cfg *config.Config) (*Application, error) {
	appLogger := newLogger(cfg)

	fyneApp := app.NewWithID(AppID)
	fyneApp.SetMetadata(&fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})

	window := fyneApp.NewWindow(views.WindowTitle)
	window.Resize(fyne.NewSize(480, 520))
	window.CenterOnScreen()

	shutdownManager := shutdown.NewManager(appLogger)

	// Lookups outlive neither the caller's context nor the shutdown sequence.
	lookupCtx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-shutdownManager.Context().Done():
		case <-lookupCtx.Done():
		}
		cancel()
	}()

	restClient := newClient(cfg, appLogger)
	decoder := imaging.NewFlagDecoder(cfg.Flag.MaxWidth, cfg.Flag.MaxHeight)
	service := services.NewLookupService(restClient, decoder, models.NewInMemoryCache(), models.NewFlagCache(), appLogger)

	controller := controllers.NewLookupController(lookupCtx, service, appLogger)
	view := views.NewMainView(window, fyne.NewSize(float32(cfg.Flag.MaxWidth), float32(cfg.Flag.MaxHeight)))
	controller.SetView(view)
	view.SetAPIInfo(restClient.BaseURL())

	shutdownManager.Register("lookup controller", controller)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     appLogger,
		config:     cfg,
		controller: controller,
		view:       view,
		service:    service,
		shutdown:   shutdownManager,
	}

	application.setupWindowEvents()
	application.setupMenus()

	appLogger.Info("Application", "application initialized", map[string]interface{}{
		"version":    AppVersion,
		"api":        restClient.BaseURL(),
		"timeout":    cfg.API.Timeout.String(),
		"flag_box":   fmt.Sprintf("%dx%d", cfg.Flag.MaxWidth, cfg.Flag.MaxHeight),
		"go_version": runtime.Version(),
	})

	return application, nil
}

// Run shows the window and blocks until the UI exits
func (a *Application) Run() error {
	a.logger.Info("Application", "starting UI", nil)

	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	a.window.ShowAndRun()

	a.shutdown.Shutdown()
	a.logger.Info("Application", "application terminated", map[string]interface{}{
		"cached_countries": a.service.CacheSize(),
	})
	return nil
}

// setupWindowEvents asks before closing and stops in-flight lookups
func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		a.logger.Debug("Application", "window close requested", nil)

		a.view.ShowConfirm("Exit", "Are you sure you want to exit?", func(confirmed bool) {
			if !confirmed {
				return
			}
			go func() {
				a.shutdown.Shutdown()
				fyne.Do(a.window.Close)
			}()
		})
	})
}

func (a *Application) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Clear", func() {
			a.view.Reset()
		}),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.view.ShowAboutDialog(AppName, AppVersion)
		}),
	)
	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}
