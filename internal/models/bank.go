package models

// BankSender maps a carrier-assigned sender id to a human-readable bank name.
type BankSender struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// BanksConfig is the top-level shape of the banks YAML file.
type BanksConfig struct {
	Banks []BankSender `yaml:"banks"`
}
