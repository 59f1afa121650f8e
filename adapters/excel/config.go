package excel

// ReaderConfig holds configuration for a passenger data source
type ReaderConfig struct {
	FilePath string `json:"file_path"`
	// Sheet is the worksheet read from XLSX files
	Sheet string `json:"sheet"`
}

// DefaultReaderConfig returns defaults for the given file
func DefaultReaderConfig(filePath string) ReaderConfig {
	return ReaderConfig{
		FilePath: filePath,
		Sheet:    "Sheet1",
	}
}
