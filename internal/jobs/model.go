package jobs

import "time"

// Job is a scored job posting. Its candidate set is fixed at creation time;
// only per-candidate status and notes mutate afterwards.
type Job struct {
	ID             string      `json:"id"`
	JobDescription string      `json:"jobDescription"`
	UploadedBy     string      `json:"uploadedBy"`
	Candidates     []Candidate `json:"candidates"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// Candidate is one scored resume inside a Job. FileName is the mutation key
// and is unique within the job. Every field beyond FileName and
// MatchPercentage is optional in the scorer output and defaulted at the
// scoring boundary.
type Candidate struct {
	FileName        string   `json:"fileName"`
	OriginalName    string   `json:"originalName,omitempty"`
	MatchPercentage float64  `json:"matchPercentage"`
	Skills          []string `json:"skills"`
	MissingSkills   []string `json:"missingSkills"`
	ExtraSkills     []string `json:"extraSkills,omitempty"`
	Pros            []string `json:"pros"`
	Cons            []string `json:"cons"`
	ImprovementTips []string `json:"improvementTips,omitempty"`
	ExperienceYears *float64 `json:"experienceYears,omitempty"`
	SemanticScore   *float64 `json:"semanticScore,omitempty"`
	SkillScore      *float64 `json:"skillScore,omitempty"`
	SelectionChance string   `json:"selectionChance,omitempty"`
	DownloadLink    string   `json:"downloadLink,omitempty"`
	Status          Status   `json:"status"`
	Notes           []Note   `json:"notes,omitempty"`
}

// Note is an append-only remark on a candidate.
type Note struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func (j *Job) findCandidate(fileName string) *Candidate {
	for i := range j.Candidates {
		if j.Candidates[i].FileName == fileName {
			return &j.Candidates[i]
		}
	}
	return nil
}

// clone returns a deep copy so repo callers never alias stored state.
func (j Job) clone() Job {
	out := j
	out.Candidates = make([]Candidate, len(j.Candidates))
	for i, cand := range j.Candidates {
		out.Candidates[i] = cand.clone()
	}
	return out
}

func (c Candidate) clone() Candidate {
	out := c
	out.Skills = append([]string(nil), c.Skills...)
	out.MissingSkills = append([]string(nil), c.MissingSkills...)
	out.ExtraSkills = append([]string(nil), c.ExtraSkills...)
	out.Pros = append([]string(nil), c.Pros...)
	out.Cons = append([]string(nil), c.Cons...)
	out.ImprovementTips = append([]string(nil), c.ImprovementTips...)
	out.Notes = append([]Note(nil), c.Notes...)
	if c.ExperienceYears != nil {
		v := *c.ExperienceYears
		out.ExperienceYears = &v
	}
	if c.SemanticScore != nil {
		v := *c.SemanticScore
		out.SemanticScore = &v
	}
	if c.SkillScore != nil {
		v := *c.SkillScore
		out.SkillScore = &v
	}
	return out
}
