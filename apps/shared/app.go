// Package shared wires configuration, logging, storage and services for the apps.
package shared

import (
	"github.com/pkg/errors"

	"github.com/trezcool/schooldesk/core"
	"github.com/trezcool/schooldesk/core/activity"
	"github.com/trezcool/schooldesk/core/payment"
	"github.com/trezcool/schooldesk/core/person"
	logsvc "github.com/trezcool/schooldesk/services/logger"
	"github.com/trezcool/schooldesk/storage/sheet"
	"github.com/trezcool/schooldesk/storage/workbook"
)

type (
	Options struct {
		Conf     *core.Config
		Backend  workbook.Backend
		Settings *core.SettingsStore
		Logger   core.Logger
	}

	App struct {
		Conf     *core.Config
		Log      core.Logger
		Settings *core.SettingsStore
		Backend  workbook.Backend
		Session  *workbook.Session
		Store    *workbook.Store
		People   *person.Service
		Payments *payment.Service
		Activity *activity.Service
	}
)

// NewApp sets up the app on the configured workbook and settings files.
func NewApp(conf *core.Config) (*App, error) {
	return NewAppWith(Options{
		Conf:     conf,
		Backend:  workbook.NewXLSXBackend(conf.DataFile),
		Settings: core.NewSettingsStore(conf.SettingsFile),
		Logger:   NewLogger(conf),
	})
}

// NewAppWith loads the settings and wires the services. The workbook is not touched.
func NewAppWith(opts Options) (*App, error) {
	if opts.Logger == nil {
		opts.Logger = core.NopLogger{}
	}
	st, err := opts.Settings.Load()
	if err != nil {
		return nil, errors.Wrap(err, "loading settings")
	}

	session := workbook.NewSession(opts.Backend, opts.Conf.IOAttempts, opts.Logger)
	store := workbook.NewStore(session)
	activitySvc := activity.NewService(store)
	peopleSvc := person.NewService(store, activitySvc, st, opts.Logger)

	return &App{
		Conf:     opts.Conf,
		Log:      opts.Logger,
		Settings: opts.Settings,
		Backend:  opts.Backend,
		Session:  session,
		Store:    store,
		People:   peopleSvc,
		Payments: payment.NewService(store, peopleSvc, activitySvc, opts.Logger),
		Activity: activitySvc,
	}, nil
}

// NewLogger logs to the console and the error log file, and to rollbar when a token is set.
func NewLogger(conf *core.Config) core.Logger {
	tee := logsvc.Tee{
		logsvc.NewConsoleLogger(conf.LogLevel),
		logsvc.NewFileLogger(conf.ErrorLogFile),
	}
	if conf.RollbarToken != "" && !conf.TestMode {
		rb := logsvc.NewRollbarLogger(conf)
		rb.Enable(true)
		tee = append(tee, rb)
	}
	return tee
}

// Ensure creates or repairs the workbook for the current custom fields.
func (app *App) Ensure() ([]sheet.Repair, error) {
	st := app.People.Settings()
	return app.Store.EnsureWorkbook(st.StudentCustomFields, st.TeacherCustomFields)
}

// Check reports what Ensure would repair.
func (app *App) Check() ([]sheet.Repair, error) {
	st := app.People.Settings()
	return app.Store.Check(st.StudentCustomFields, st.TeacherCustomFields)
}

// ApplySettings saves st, hands it to the services and adds any new custom field columns.
func (app *App) ApplySettings(st core.Settings) (core.Settings, error) {
	st = st.Clean()
	if err := app.Settings.Save(st); err != nil {
		return core.Settings{}, err
	}
	app.People.SetSettings(st)
	if _, err := app.Ensure(); err != nil {
		return core.Settings{}, errors.Wrap(err, "adding custom field columns")
	}
	return st, nil
}

// Watcher invalidates the cache when the workbook changes on disk.
func (app *App) Watcher(onChange func()) *workbook.Watcher {
	return workbook.NewWatcher(app.Backend, app.Session, onChange)
}
