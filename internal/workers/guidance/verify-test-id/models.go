package verifytestid

type Input struct {
	TestID string `json:"testId"`
}

type Output struct {
	TestID string `json:"testId"`
	Valid  bool   `json:"valid"`
}
