package merge

import (
	"fmt"

	"lexcurate/internal/dataset"
	"lexcurate/internal/lexicon"
	"lexcurate/internal/logging"
)

// FormRequest names homophonous forms to fuse. The first member survives
// unless Target names another member.
type FormRequest struct {
	Members []string
	Target  string
}

// FormResult describes one applied homophone merge.
type FormResult struct {
	Target     string
	Removed    []string
	Retargeted int
	// Duplicates maps cognate set IDs to the survivor's judgements that now
	// fall into the same set more than once.
	Duplicates map[string][]string
}

// MergeForms fuses every request as one batch: either all succeed or ds is
// left unchanged.
func (e *Engine) MergeForms(ds *dataset.Dataset, reqs []FormRequest) ([]FormResult, error) {
	work := ds.Clone()
	results := make([]FormResult, 0, len(reqs))
	for _, req := range reqs {
		result, err := e.mergeForms(work, req)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}
	ds.Commit(work)
	for _, r := range results {
		e.logger.Info("homophones merged",
			logging.String("target", r.Target),
			logging.IDs("removed", r.Removed),
			logging.Int("retargeted", r.Retargeted),
		)
	}
	return results, nil
}

func (e *Engine) mergeForms(ds *dataset.Dataset, req FormRequest) (*FormResult, error) {
	members := dedupe(req.Members)
	if len(members) < 2 {
		return nil, &ConflictError{Members: members, Reason: "a homophone group needs at least two forms"}
	}
	var missing []string
	forms := make([]*lexicon.Form, 0, len(members))
	for _, id := range members {
		f, ok := ds.Forms.Form(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		forms = append(forms, f)
	}
	if len(missing) > 0 {
		return nil, &lexicon.UnknownFormError{IDs: missing}
	}

	target := members[0]
	if req.Target != "" {
		target = req.Target
	}
	ordered := make([]*lexicon.Form, 0, len(forms))
	for _, f := range forms {
		if f.ID == target {
			ordered = append([]*lexicon.Form{f}, ordered...)
		} else {
			ordered = append(ordered, f)
		}
	}
	if ordered[0].ID != target {
		return nil, &ConflictError{Members: members, Reason: fmt.Sprintf("target %q is not a member of the group", target)}
	}

	first := ordered[0]
	for _, f := range ordered[1:] {
		switch {
		case f.LanguageID != first.LanguageID:
			return nil, &ConflictError{Members: members, Reason: fmt.Sprintf("forms %q and %q belong to different languages", first.ID, f.ID)}
		case lexicon.Normalize(f.Value) != lexicon.Normalize(first.Value):
			return nil, &ConflictError{Members: members, Reason: fmt.Sprintf("forms %q and %q have different values", first.ID, f.ID)}
		case !lexicon.EqualTokens(f.Segments, first.Segments):
			return nil, &ConflictError{Members: members, Reason: fmt.Sprintf("forms %q and %q are segmented differently", first.ID, f.ID)}
		}
	}

	survivor := first.Clone()
	records := append([]*lexicon.Form{survivor}, ordered[1:]...)
	if err := fold(records, e.opts.FormPolicies); err != nil {
		return nil, &ConflictError{Members: members, Reason: err.Error()}
	}
	if e.opts.Tag != "" {
		survivor.Status = e.opts.Tag
	}
	ds.Forms.Put(survivor)

	result := &FormResult{Target: target}
	for _, f := range ordered[1:] {
		n, err := ds.Judgements.RetargetForm(f.ID, target, e.opts.Tag)
		if err != nil {
			return nil, err
		}
		result.Retargeted += n
		ds.Forms.Delete(f.ID)
		result.Removed = append(result.Removed, f.ID)
	}

	bySet := make(map[string][]string)
	for _, j := range ds.Judgements.ForForm(target) {
		bySet[j.CognateSetID] = append(bySet[j.CognateSetID], j.ID)
	}
	for setID, ids := range bySet {
		if len(ids) < 2 {
			delete(bySet, setID)
		}
	}
	result.Duplicates = bySet
	return result, nil
}
