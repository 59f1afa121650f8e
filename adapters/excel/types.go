package excel

// RawRowData represents a row of raw source data as string key-value pairs
type RawRowData map[string]string

// ExcelData represents a tabular source file
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// Kaggle manifest column headers
const (
	ColPassengerID = "PassengerId"
	ColSurvived    = "Survived"
	ColClass       = "Pclass"
	ColName        = "Name"
	ColSex         = "Sex"
	ColAge         = "Age"
	ColSibSp       = "SibSp"
	ColParch       = "Parch"
	ColTicket      = "Ticket"
	ColFare        = "Fare"
	ColCabin       = "Cabin"
	ColEmbarked    = "Embarked"
)

// requiredColumns must be present in every source
var requiredColumns = []string{ColPassengerID, ColSurvived, ColClass, ColSex, ColAge}
