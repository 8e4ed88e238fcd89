package mock

// StateRepository keeps the state blob in memory, with pluggable failures
// for exercising the degraded paths.
type StateRepository struct {
	Data    []byte
	LoadErr error
	SaveErr error
	Saves   int
}

func (r *StateRepository) Load() ([]byte, error) {
	if r.LoadErr != nil {
		return nil, r.LoadErr
	}
	return r.Data, nil
}

func (r *StateRepository) Save(data []byte) error {
	r.Saves++
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.Data = append([]byte(nil), data...)
	return nil
}
