package configure

type Configure struct {
	BaseURI   string          `yaml:"base-uri"`
	AccountID string          `yaml:"account-id"`
	Secret    string          `yaml:"secret"`
	MinIO     *MinIOConfigure `yaml:"minio"`
	Log       *LogConfigure   `yaml:"log"`
}

type MinIOConfigure struct {
	Endpoint    string                     `yaml:"endpoint"`
	Credentials *MinIOCredentialsConfigure `yaml:"credentials"`
	SSL         bool                       `yaml:"ssl"`
	Region      string                     `yaml:"region"`
	Bucket      string                     `yaml:"bucket"` // used when a document ref has no bucket
}

type MinIOCredentialsConfigure struct {
	AccessKey string `yaml:"access-key"`
	SecretKey string `yaml:"secret-key"`
}

type LogConfigure struct {
	Release bool `yaml:"release"`
	Silent  bool `yaml:"silent"`
	Debug   bool `yaml:"debug"`
}
