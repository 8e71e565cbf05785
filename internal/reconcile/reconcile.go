// Package reconcile brings one network entry of a running wpa_supplicant
// in line with a desired profile.
package reconcile

import (
	"fmt"
	"log/slog"

	"github.com/all-dot-files/wifiprov/internal/models"
	"github.com/all-dot-files/wifiprov/internal/wpacli"
	"github.com/all-dot-files/wifiprov/pkg/errors"
	"github.com/all-dot-files/wifiprov/pkg/logger"
)

// Daemon is the subset of the wpa_cli client the reconciler drives.
// A returned error means the command could not be run at all; a daemon
// refusal is reported through the Result.
type Daemon interface {
	ListNetworks() ([]models.NetworkProfile, error)
	AddNetwork() (wpacli.Result, int, error)
	SetNetwork(id int, key, value string) (wpacli.Result, error)
	RemoveNetwork(id int) (wpacli.Result, error)
	Reconfigure() (wpacli.Result, error)
	SaveConfig() (wpacli.Result, error)
	Reassociate() (wpacli.Result, error)
	Note(text string) (wpacli.Result, error)
}

// Options controls one reconciliation
type Options struct {
	// DryRun plans without issuing any mutating command
	DryRun bool
	// NotePrefix starts the line written to the daemon debug log
	NotePrefix string
}

// Report describes what a reconciliation did, or would do in dry-run.
type Report struct {
	Action    models.Action
	NetworkID int
	Removed   []int
	DryRun    bool
	// Commands are the daemon commands issued, or planned in dry-run
	Commands []string
	Warnings []string
}

// Reconciler applies plans through a Daemon
type Reconciler struct {
	daemon Daemon
	opts   Options
	log    *slog.Logger
	report *Report
}

// New creates a reconciler
func New(daemon Daemon, opts Options) *Reconciler {
	if opts.NotePrefix == "" {
		opts.NotePrefix = "wifiprov"
	}
	return &Reconciler{
		daemon: daemon,
		opts:   opts,
		log:    logger.With("component", "reconcile"),
	}
}

// Reconcile decides between add, modify and replace for the desired
// profile against the current listing and carries it out. On success the
// daemon has saved its configuration and been asked to reassociate.
func (r *Reconciler) Reconcile(networks []models.NetworkProfile, desired *models.DesiredProfile) (*Report, error) {
	plan, err := NewPlan(networks, desired)
	if err != nil {
		return nil, err
	}

	r.report = &Report{Action: plan.Action, NetworkID: -1, DryRun: r.opts.DryRun}
	r.log.Info("plan", "action", plan.Action, "match", desired.MatchKey(), "matches", plan.Matches, "max_id", plan.MaxID)

	if r.opts.DryRun {
		r.report.Commands = plan.Commands(networks)
		if plan.Action == models.ActionModify {
			r.report.NetworkID = plan.Matches[0]
		} else {
			r.report.NetworkID = plan.ExpectedID(networks)
			r.report.Removed = plan.Matches
		}
		return r.report, nil
	}

	switch plan.Action {
	case models.ActionAdd:
		err = r.add(plan, plan.MaxID)
	case models.ActionModify:
		err = r.modify(plan)
	case models.ActionReplace:
		err = r.replace(plan)
	}
	if err != nil {
		return r.report, err
	}

	if err := r.finish(plan); err != nil {
		return r.report, err
	}
	return r.report, nil
}

// add creates a new entry and sets every field. maxID is the highest id of
// the listing the caller holds; the daemon must assign maxID+1.
func (r *Reconciler) add(plan *Plan, maxID int) error {
	res, id, err := r.daemon.AddNetwork()
	if err != nil {
		return err
	}
	r.issued(res)
	if !res.OK {
		return r.abort("add", errors.DaemonErrors{cmdErr(res)})
	}
	if id != maxID+1 {
		// Removed matches come back from the configuration file on disk.
		if len(r.report.Removed) > 0 {
			rc, err := r.daemon.Reconfigure()
			if err != nil {
				return err
			}
			r.issued(rc)
			if !rc.OK {
				r.log.Warn("reconfigure after id mismatch not accepted", "reply", rc.Message)
			}
		}
		return errors.New(errors.ErrInconsistent, "reconcile.add",
			fmt.Sprintf("daemon assigned network id %d, expected %d", id, maxID+1)).
			WithSuggestion("the daemon configuration changed during the run; inspect it with 'wifiprov list'")
	}
	r.report.NetworkID = id

	failed, err := r.setFields(id, plan.Fields)
	if err != nil {
		return err
	}
	if len(failed) > 0 {
		r.log.Warn("rolling back added network", "id", id, "failed", len(failed))
		rm, err := r.daemon.RemoveNetwork(id)
		if err != nil {
			return err
		}
		r.issued(rm)
		if !rm.OK {
			failed = append(failed, cmdErr(rm))
		}
		return r.abort("add", failed)
	}
	return nil
}

// modify sets every field on the single matching entry in place.
func (r *Reconciler) modify(plan *Plan) error {
	id := plan.Matches[0]
	r.report.NetworkID = id

	failed, err := r.setFields(id, plan.Fields)
	if err != nil {
		return err
	}
	if len(failed) > 0 {
		return r.abort("modify", failed)
	}
	return nil
}

// replace removes every match, ascending, then adds against a fresh
// listing. Removal continues past failures; any failure aborts before add.
func (r *Reconciler) replace(plan *Plan) error {
	var failed errors.DaemonErrors
	for _, id := range plan.Matches {
		res, err := r.daemon.RemoveNetwork(id)
		if err != nil {
			return err
		}
		r.issued(res)
		if !res.OK {
			failed = append(failed, cmdErr(res))
			continue
		}
		r.report.Removed = append(r.report.Removed, id)
	}
	if len(failed) > 0 {
		return r.abort("replace", failed)
	}

	networks, err := r.daemon.ListNetworks()
	if err != nil {
		return err
	}
	r.report.Commands = append(r.report.Commands, "list_networks")
	return r.add(plan, wpacli.MaxID(networks))
}

// finish annotates the daemon log, saves and reassociates.
func (r *Reconciler) finish(plan *Plan) error {
	note := fmt.Sprintf("%s: %s network %d %s=%s", r.opts.NotePrefix, plan.Action,
		r.report.NetworkID, plan.Desired.MatchKey(), matchValue(plan.Desired))
	res, err := r.daemon.Note(note)
	if err != nil {
		return err
	}
	r.issued(res)
	if !res.OK {
		r.log.Warn("note not accepted", "reply", res.Message)
		r.report.Warnings = append(r.report.Warnings, "daemon did not accept note: "+res.Message)
	}

	var failed errors.DaemonErrors
	for _, step := range []func() (wpacli.Result, error){r.daemon.SaveConfig, r.daemon.Reassociate} {
		res, err := step()
		if err != nil {
			return err
		}
		r.issued(res)
		if !res.OK {
			failed = append(failed, cmdErr(res))
		}
	}
	if len(failed) > 0 {
		return errors.Wrap(failed, errors.ErrDaemon, "reconcile.finish",
			"network was configured but the daemon did not save or reassociate").
			WithSuggestion("check update_config=1 in wpa_supplicant.conf")
	}
	return nil
}

// setFields attempts every field and collects the refusals.
func (r *Reconciler) setFields(id int, fields []Field) (errors.DaemonErrors, error) {
	var failed errors.DaemonErrors
	for _, f := range fields {
		res, err := r.daemon.SetNetwork(id, f.Key, f.Value)
		if err != nil {
			return nil, err
		}
		r.issued(res)
		if !res.OK {
			r.log.Warn("set_network refused", "id", id, "key", f.Key, "reply", res.Message)
			failed = append(failed, cmdErr(res))
		}
	}
	return failed, nil
}

// abort reloads the daemon configuration and returns the collected
// failures as a DAEMON error.
func (r *Reconciler) abort(step string, failed errors.DaemonErrors) error {
	res, err := r.daemon.Reconfigure()
	if err != nil {
		return err
	}
	r.issued(res)
	if !res.OK {
		failed = append(failed, cmdErr(res))
	}
	return errors.Wrap(failed, errors.ErrDaemon, "reconcile."+step,
		fmt.Sprintf("%d daemon command(s) failed", len(failed))).
		WithSuggestion("the daemon configuration was reloaded from disk; check the wpa_supplicant log")
}

func (r *Reconciler) issued(res wpacli.Result) {
	r.report.Commands = append(r.report.Commands, res.Command)
}

func cmdErr(res wpacli.Result) errors.CommandError {
	return errors.CommandError{Command: res.Command, Reply: res.Message}
}
