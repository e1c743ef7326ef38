package training

import (
	"errors"
	"fmt"
)

var ErrInvalidProfile = errors.New("invalid profile")

// ValidateProfile checks the onboarding answers stored in a profile.
func (r Rules) ValidateProfile(profile UserProfile) error {
	if profile.UserID == "" {
		return fmt.Errorf("%w: user id empty", ErrInvalidProfile)
	}
	if profile.Role != "" && !profile.Role.IsValid() {
		return fmt.Errorf("%w: unknown role [%s]", ErrInvalidProfile, profile.Role)
	}
	for _, d := range profile.PreferredDisciplines {
		if !r.IsKnownDiscipline(d) {
			return fmt.Errorf("%w: unknown discipline [%s]", ErrInvalidProfile, d)
		}
	}
	for exerciseID, variations := range profile.CurrentMilestones {
		for variationID, count := range variations {
			if count < 0 || count > OverloadPeriodSessions {
				return fmt.Errorf(
					"%w: milestone [%s/%s] count %d out of range",
					ErrInvalidProfile, exerciseID, variationID, count,
				)
			}
		}
	}
	return nil
}

// NormalizeProfile returns a copy of the profile with preferred disciplines in
// the rules spelling, duplicates dropped. Unknown disciplines are kept as they
// are, ValidateProfile reports them.
func (r Rules) NormalizeProfile(profile UserProfile) UserProfile {
	if len(profile.PreferredDisciplines) == 0 {
		return profile
	}

	seen := make(map[string]bool, len(profile.PreferredDisciplines))
	disciplines := make([]string, 0, len(profile.PreferredDisciplines))
	for _, d := range profile.PreferredDisciplines {
		if canonical, ok := r.CanonicalDiscipline(d); ok {
			d = canonical
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		disciplines = append(disciplines, d)
	}
	profile.PreferredDisciplines = disciplines
	return profile
}
