package matching

// EligibleCandidates applies the hard breeding-eligibility rules to a
// candidate pool. A candidate passes only if it is a different listing from
// a different owner, ACTIVE, marked available, of the opposite gender, and
// not neutered. Filtering runs before scoring so the scoring pass only sees
// candidates that could actually match.
//
// The rules are a pure predicate on the pair, so filtering an already
// filtered pool yields the same set.
func EligibleCandidates(source *DogProfile, pool []*DogProfile) []*DogProfile {
	eligible := make([]*DogProfile, 0, len(pool))
	for _, candidate := range pool {
		if isEligible(source, candidate) {
			eligible = append(eligible, candidate)
		}
	}
	return eligible
}

func isEligible(source, candidate *DogProfile) bool {
	if candidate.ID == source.ID {
		return false
	}
	// An owner cannot breed their own listings against each other.
	if candidate.OwnerID == source.OwnerID {
		return false
	}
	if candidate.Status != StatusActive {
		return false
	}
	if !candidate.Available {
		return false
	}
	if candidate.Gender != source.Gender.Opposite() {
		return false
	}
	if candidate.Neutered {
		return false
	}
	return true
}
