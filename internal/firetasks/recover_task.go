package firetasks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jotelha/jlhfw/internal/domain/spec"
	"github.com/jotelha/jlhfw/internal/domain/tasks"
	"github.com/jotelha/jlhfw/internal/domain/workflow"
	"github.com/jotelha/jlhfw/internal/pkg/logger"
)

// RecoverTaskName resolves the recovery task in the registry.
const RecoverTaskName = "RecoverTask"

// Spec keys the host engine manages; inserted fireworks must not
// inherit them from the fizzled parent.
var defaultFwSpecToExclude = []string{
	"_job_info",
	"_fw_env",
	"_files_prev",
	"_fizzled_parents",
}

// RecoverTask inspects the latest launch of a fizzled parent, forwards
// its restart and auxiliary files into the current launch directory and
// inserts a restart workflow as a detour. A copy of the task itself
// trails the insertion, so recovery repeats until the run completes or
// the restart budget is exhausted.
//
// Parameters (all value parameters accept {"key": "spec->path"}
// indirection):
//
//	restart_wf                   workflow or firework document inserted
//	                             on recovery (required)
//	detour_wf, addition_wf       documents always inserted when given
//	max_restarts                 restart budget, default 5
//	restart_counter              spec key path of the restart count,
//	                             default "restart_count"
//	restart_file_glob_patterns   default ["*.restart[0-9]"], per pattern
//	                             only the most recent match is forwarded
//	restart_file_dests           none, one for all, or one per pattern
//	other_glob_patterns          additional files to forward, all matches
//	fizzle_on_no_restart_file    default true
//	ignore_errors                tolerate copy errors on other files,
//	                             default true
//	fw_spec_to_exclude           keys stripped from inherited specs,
//	                             list or nested marker
//	superpose_{restart,addition,detour}_on_parent_fw_spec
//	                             merge the fizzled parent's spec beneath
//	                             the inserted fireworks' specs
//	apply_mod_spec_to_{addition,detour}_wf
//	                             apply this task's output injection to
//	                             the insertion roots, default true
//	repeated_recover_fw_name     name of the trailing recovery firework
//	stored_data, output, dict_mod, propagate, store_stdlog
//	                             generic output handling
type RecoverTask struct {
	params tasks.Params
	log    logger.Logger
}

// NewRecoverTask creates the task from its raw parameter document.
func NewRecoverTask(params spec.Spec, log logger.Logger) (*RecoverTask, error) {
	p := tasks.NewParams(params)
	if !p.Has("restart_wf") {
		return nil, fmt.Errorf("recover task requires a restart_wf parameter")
	}
	return &RecoverTask{params: p, log: log}, nil
}

// Name returns the registry name of the task.
func (t *RecoverTask) Name() string { return RecoverTaskName }

type recoverSettings struct {
	restartWfDoc  spec.Spec
	detourWfDoc   spec.Spec
	additionWfDoc spec.Spec

	applyModSpecToAdditionWf bool
	applyModSpecToDetourWf   bool
	fizzleOnNoRestartFile    bool
	ignoreErrors             bool
	maxRestarts              int
	otherGlobPatterns        []string
	repeatedRecoverFwName    string
	restartCounter           string
	restartFileGlobPatterns  []string
	restartFileDests         []string
	superposeRestart         bool
	superposeAddition        bool
	superposeDetour          bool
	fwSpecToExclude          spec.Marker

	output tasks.OutputOptions
}

func (t *RecoverTask) settings(fwSpec spec.Spec, log *taskLog) (*recoverSettings, error) {
	s := &recoverSettings{}
	var err error

	if s.restartWfDoc, err = t.params.Document("restart_wf", fwSpec); err != nil {
		return nil, err
	}
	if s.detourWfDoc, err = t.params.Document("detour_wf", fwSpec); err != nil {
		return nil, err
	}
	if s.additionWfDoc, err = t.params.Document("addition_wf", fwSpec); err != nil {
		return nil, err
	}
	if s.applyModSpecToAdditionWf, err = t.params.Bool("apply_mod_spec_to_addition_wf", true, fwSpec); err != nil {
		return nil, err
	}
	if s.applyModSpecToDetourWf, err = t.params.Bool("apply_mod_spec_to_detour_wf", true, fwSpec); err != nil {
		return nil, err
	}
	if s.fizzleOnNoRestartFile, err = t.params.Bool("fizzle_on_no_restart_file", true, fwSpec); err != nil {
		return nil, err
	}
	if s.ignoreErrors, err = t.params.Bool("ignore_errors", true, fwSpec); err != nil {
		return nil, err
	}
	if s.maxRestarts, err = t.params.Int("max_restarts", 5, fwSpec); err != nil {
		return nil, err
	}
	if s.otherGlobPatterns, err = t.params.StringSlice("other_glob_patterns", nil, fwSpec); err != nil {
		return nil, err
	}
	if s.repeatedRecoverFwName, err = t.params.String("repeated_recover_fw_name", "Repeated recovery", fwSpec); err != nil {
		return nil, err
	}
	if s.restartCounter, err = t.params.String("restart_counter", "restart_count", fwSpec); err != nil {
		return nil, err
	}
	if s.restartFileGlobPatterns, err = t.params.StringSlice("restart_file_glob_patterns", []string{"*.restart[0-9]"}, fwSpec); err != nil {
		return nil, err
	}
	if s.restartFileDests, err = t.params.StringSlice("restart_file_dests", nil, fwSpec); err != nil {
		return nil, err
	}
	if s.superposeRestart, err = t.params.Bool("superpose_restart_on_parent_fw_spec", false, fwSpec); err != nil {
		return nil, err
	}
	if s.superposeAddition, err = t.params.Bool("superpose_addition_on_parent_fw_spec", false, fwSpec); err != nil {
		return nil, err
	}
	if s.superposeDetour, err = t.params.Bool("superpose_detour_on_parent_fw_spec", false, fwSpec); err != nil {
		return nil, err
	}
	if s.fwSpecToExclude, err = t.params.Marker("fw_spec_to_exclude", spec.MarkerFromKeys(defaultFwSpecToExclude), fwSpec); err != nil {
		return nil, err
	}
	if s.output, err = tasks.ParseOutputOptions(t.params, fwSpec); err != nil {
		return nil, err
	}

	// Destinations: none means current dir, a single one covers all
	// patterns, otherwise one per pattern or fall back with a warning.
	if len(s.restartFileDests) == 0 {
		s.restartFileDests = []string{"."}
	}
	if len(s.restartFileDests) == 1 && len(s.restartFileGlobPatterns) > 1 {
		dest := s.restartFileDests[0]
		s.restartFileDests = make([]string, len(s.restartFileGlobPatterns))
		for i := range s.restartFileDests {
			s.restartFileDests[i] = dest
		}
	}
	if len(s.restartFileDests) != len(s.restartFileGlobPatterns) {
		log.Warnf("there are %d restart_file_glob_patterns but %d restart_file_dests, latter ignored",
			len(s.restartFileGlobPatterns), len(s.restartFileDests))
		s.restartFileDests = make([]string, len(s.restartFileGlobPatterns))
		for i := range s.restartFileDests {
			s.restartFileDests[i] = "."
		}
	}

	return s, nil
}

// prevLaunch describes the launch recovery pulls files and spec from.
type prevLaunch struct {
	spec spec.Spec
	dir  string
}

// previousLaunch extracts the previous launch from the firework spec:
// intentionally passed job info takes precedence over fizzled parents.
// Nil means there is nothing to recover from.
func previousLaunch(fwSpec spec.Spec, log *taskLog) *prevLaunch {
	if entries, ok := fwSpec["_job_info"].([]any); ok && len(entries) > 0 {
		if info, ok := entries[len(entries)-1].(map[string]any); ok {
			prev := &prevLaunch{}
			prev.dir, _ = info["launch_dir"].(string)
			if parentSpec, ok := info["spec"].(map[string]any); ok {
				prev.spec = spec.Spec(parentSpec)
			}
			log.Infof("previous job %v (id %v) ran in %s", info["name"], info["fw_id"], prev.dir)
			return prev
		}
	}
	// TODO: with several parents, recovery follows the last fizzled
	// entry even if another parent is the relevant one
	if entries, ok := fwSpec["_fizzled_parents"].([]any); ok && len(entries) > 0 {
		if info, ok := entries[len(entries)-1].(map[string]any); ok {
			prev := &prevLaunch{}
			if parentSpec, ok := info["spec"].(map[string]any); ok {
				prev.spec = spec.Spec(parentSpec)
			}
			if launches, ok := info["launches"].([]any); ok && len(launches) > 0 {
				if launch, ok := launches[len(launches)-1].(map[string]any); ok {
					prev.dir, _ = launch["launch_dir"].(string)
				}
			}
			log.Infof("fizzled parent %v (id %v) ran in %s", info["name"], info["fw_id"], prev.dir)
			return prev
		}
	}
	log.Infof("no information about previous (fizzled or other) jobs available")
	return nil
}

// forwardOtherFiles copies every match of the given glob patterns from
// the previous launch dir into destDir.
func forwardOtherFiles(prevDir string, patterns []string, ignoreErrors bool, destDir string, log *taskLog) error {
	for _, pattern := range patterns {
		log.Infof("processing glob pattern %s", pattern)
		matches, err := filepath.Glob(filepath.Join(prevDir, pattern))
		if err != nil {
			return fmt.Errorf("bad glob pattern %q: %w", pattern, err)
		}
		for _, src := range matches {
			if err := copyFile(src, filepath.Join(destDir, filepath.Base(src))); err != nil {
				if !ignoreErrors {
					return fmt.Errorf("forwarding %s: %w", src, err)
				}
				log.Warnf("there was an error copying %q to %q, ignored: %v", src, destDir, err)
				continue
			}
			log.Infof("file %s forwarded", src)
		}
	}
	return nil
}

// forwardRestartFiles copies, per glob pattern, the most recent match
// from the previous launch dir to the paired destination. A pattern
// without a match fizzles the task when requested.
func forwardRestartFiles(prevDir string, patterns, dests []string, fizzleOnNoRestartFile bool, destBase string, log *taskLog) error {
	for i, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(prevDir, pattern))
		if err != nil {
			return fmt.Errorf("bad glob pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			if fizzleOnNoRestartFile {
				return fmt.Errorf("no restart file in %s for glob pattern %s", prevDir, pattern)
			}
			log.Warnf("no restart file in %s for glob pattern %s", prevDir, pattern)
			continue
		}

		src := mostRecentFile(matches)
		if len(matches) > 1 {
			log.Infof("several restart files for glob pattern %q, most recent %q wins", pattern, src)
		}

		dest := dests[i]
		if !filepath.IsAbs(dest) {
			dest = filepath.Join(destBase, dest)
		}
		target := dest
		if info, err := os.Stat(dest); err == nil && info.IsDir() {
			target = filepath.Join(dest, filepath.Base(src))
		}
		log.Infof("restart file %s will be copied to %s", src, target)
		if err := copyFile(src, target); err != nil {
			return fmt.Errorf("copying restart file %s to %s: %w", src, target, err)
		}
	}
	return nil
}

func mostRecentFile(paths []string) string {
	sort.Strings(paths)
	best := paths[0]
	var bestTime time.Time
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().After(bestTime) {
			bestTime = info.ModTime()
			best = path
		}
	}
	return best
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// appendableWorkflow builds an insertion workflow from a workflow or
// single-firework document, superposes baseSpec beneath each firework's
// spec when given and assigns consecutive negative ids.
func appendableWorkflow(doc, baseSpec spec.Spec, exclusions spec.Marker, nextID *int) (*workflow.Workflow, error) {
	wf, err := workflow.FromDocument(doc)
	if err != nil {
		return nil, err
	}
	if baseSpec != nil {
		for _, fw := range wf.FWs {
			fw.Spec = spec.Merge(baseSpec, fw.Spec, spec.MergeOptions{
				AddKeys:    true,
				Exclusions: exclusions,
			})
		}
	}
	remap := make(map[int]int, len(wf.FWs))
	for _, fw := range wf.FWs {
		remap[fw.FWID] = *nextID
		*nextID--
	}
	wf.ReassignIDs(remap)
	return wf, nil
}

func superpositionBase(enabled bool, prev *prevLaunch, which string, log *taskLog) spec.Spec {
	if !enabled {
		return nil
	}
	if prev == nil || prev.spec == nil {
		log.Warnf("superposition of %s specs onto parent fw_spec desired, but no parent fw_spec recovered", which)
		return nil
	}
	return prev.spec
}

// restartCount derives the next restart number, preferring the fizzled
// parent's spec over the task's own.
func restartCount(prev *prevLaunch, fwSpec spec.Spec, counterKey string, log *taskLog) int {
	if prev != nil && prev.spec != nil {
		if value, err := spec.GetNested(prev.spec, counterKey); err == nil {
			return looseInt(value) + 1
		}
		log.Warnf("found no restart count in fw_spec of fizzled parent at key %q", counterKey)
	}
	if value, err := spec.GetNested(fwSpec, counterKey); err == nil {
		return looseInt(value) + 1
	}
	log.Warnf("found no restart count in own fw_spec at key %q", counterKey)
	return 0
}

func looseInt(v any) int {
	switch typed := v.(type) {
	case int:
		return typed
	case int64:
		return int(typed)
	case float64:
		return int(typed)
	default:
		return 0
	}
}

// writeFilesPrev resolves the current firework's _files_out globs in
// the launch dir and hands the results to the insertion roots as
// _files_prev.
func writeFilesPrev(wf *workflow.Workflow, fwSpec spec.Spec, launchDir string, log *taskLog) {
	filesOut, ok := fwSpec["_files_out"].(map[string]any)
	if !ok || len(filesOut) == 0 {
		return
	}
	log.Infof("current firework's _files_out: %v", filesOut)

	filesPrev := map[string]any{}
	for name, value := range filesOut {
		pattern, ok := value.(string)
		if !ok {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(launchDir, pattern))
		if err != nil || len(matches) == 0 {
			continue
		}
		sort.Strings(matches)
		filesPrev[name] = matches[len(matches)-1]
		log.Infof("%s: %q provided as _files_prev to subsequent fireworks", name, matches[len(matches)-1])
	}

	for _, id := range wf.RootIDs() {
		wf.ByID(id).Spec["_files_prev"] = filesPrev
	}
}

// taskDocument is the document form of this task, embedded in the
// repeated recovery firework's _tasks list.
func (t *RecoverTask) taskDocument() map[string]any {
	doc := map[string]any(spec.Clone(t.params.Raw()))
	doc["_fw_name"] = RecoverTaskName
	return doc
}

// RunTask performs recovery and assembles the dynamic insertions.
func (t *RecoverTask) RunTask(ctx context.Context, fwSpec spec.Spec) (*tasks.Action, error) {
	launchDir, err := tasks.LaunchDir(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving launch directory: %w", err)
	}

	storeStdlog, err := t.params.Bool("store_stdlog", false, fwSpec)
	if err != nil {
		return nil, err
	}
	log := newTaskLog(t.log, storeStdlog)

	s, err := t.settings(fwSpec, log)
	if err != nil {
		return nil, err
	}

	prev := previousLaunch(fwSpec, log)

	if prev != nil {
		if err := forwardOtherFiles(prev.dir, s.otherGlobPatterns, s.ignoreErrors, launchDir, log); err != nil {
			return nil, err
		}
		if err := forwardRestartFiles(prev.dir, s.restartFileGlobPatterns, s.restartFileDests, s.fizzleOnNoRestartFile, launchDir, log); err != nil {
			return nil, err
		}
	}

	nextID := -1
	var detourWf, additionWf *workflow.Workflow

	if s.detourWfDoc != nil {
		base := superpositionBase(s.superposeDetour, prev, "detour_wf", log)
		if detourWf, err = appendableWorkflow(s.detourWfDoc, base, s.fwSpecToExclude, &nextID); err != nil {
			return nil, fmt.Errorf("building detour workflow: %w", err)
		}
	}

	if prev != nil {
		count := restartCount(prev, fwSpec, s.restartCounter, log)
		if count < s.maxRestarts+1 {
			log.Infof("this is restart #%d of at most %d", count+1, s.maxRestarts)

			base := superpositionBase(s.superposeRestart, prev, "restart_wf", log)
			restartWf, err := appendableWorkflow(s.restartWfDoc, base, s.fwSpecToExclude, &nextID)
			if err != nil {
				return nil, fmt.Errorf("building restart workflow: %w", err)
			}
			for _, fw := range restartWf.FWs {
				spec.SetNested(fw.Spec, s.restartCounter, count)
			}

			if detourWf != nil {
				if err := detourWf.Append(restartWf, nil); err != nil {
					return nil, fmt.Errorf("merging restart workflow into detour: %w", err)
				}
			} else {
				detourWf = restartWf
			}

			// The repeated recovery firework inherits this firework's
			// spec minus the excluded keys and trails every insertion
			// leaf.
			recoverSpec := spec.Merge(nil, fwSpec, spec.MergeOptions{
				AddKeys:    true,
				Exclusions: s.fwSpecToExclude,
			})
			recoverSpec["_tasks"] = []any{t.taskDocument()}
			recoverFw := workflow.NewFirework(nextID, s.repeatedRecoverFwName, recoverSpec)
			nextID--
			log.Infof("created repeated recover firework %q with id %d", recoverFw.Name, recoverFw.FWID)

			if err := detourWf.Append(workflow.Single(recoverFw), detourWf.LeafIDs()); err != nil {
				return nil, fmt.Errorf("appending repeated recover firework: %w", err)
			}
		} else {
			log.Warnf("maximum number of %d restarts reached, no further restart", s.maxRestarts)
		}
		if detourWf != nil {
			writeFilesPrev(detourWf, fwSpec, launchDir, log)
		}
	} else {
		log.Warnf("no restart fireworks appended")
	}

	if s.additionWfDoc != nil {
		base := superpositionBase(s.superposeAddition, prev, "addition_wf", log)
		if additionWf, err = appendableWorkflow(s.additionWfDoc, base, s.fwSpecToExclude, &nextID); err != nil {
			return nil, fmt.Errorf("building addition workflow: %w", err)
		}
		writeFilesPrev(additionWf, fwSpec, launchDir, log)
	}

	output := spec.Spec{}
	if storeStdlog {
		output["stdlog"] = log.String()
	}

	action := &tasks.Action{Propagate: s.output.Propagate}
	if s.output.StoredData {
		action.StoredData = output
	}
	if s.output.OutputKey != "" {
		action.ModSpec = []spec.Mod{
			{s.output.DictMod: {s.output.OutputKey: map[string]any(output)}},
		}
	}

	if additionWf != nil && s.applyModSpecToAdditionWf {
		if _, err := additionWf.ApplyUpdates(action.UpdateSpec, action.ModSpec, action.Propagate); err != nil {
			return nil, fmt.Errorf("applying spec updates to addition workflow: %w", err)
		}
	}
	if detourWf != nil && s.applyModSpecToDetourWf {
		if _, err := detourWf.ApplyUpdates(action.UpdateSpec, action.ModSpec, action.Propagate); err != nil {
			return nil, fmt.Errorf("applying spec updates to detour workflow: %w", err)
		}
	}

	if additionWf != nil {
		action.Additions = []*workflow.Workflow{additionWf}
	}
	if detourWf != nil {
		action.Detours = []*workflow.Workflow{detourWf}
	}
	return action, nil
}
