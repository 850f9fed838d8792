package config

type StorageConfig struct {
	Provider string
	Local    *LocalStorageConfig
	AWS      *AWSStorageConfig
	ImageKit *ImageKitConfig
}

type LocalStorageConfig struct {
	BasePath string
	BaseURL  string
}

type AWSStorageConfig struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	CDNDomain       string
}

type ImageKitConfig struct {
	PublicKey   string
	PrivateKey  string
	URLEndpoint string
	UploadURL   string
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Provider: getEnv("STORAGE_PROVIDER", "local"),
		Local: &LocalStorageConfig{
			BasePath: getEnv("STORAGE_LOCAL_PATH", "./uploads"),
			BaseURL:  getEnv("STORAGE_LOCAL_URL", "http://localhost:8080/uploads"),
		},
		AWS: &AWSStorageConfig{
			Region:          getEnv("AWS_S3_REGION", "us-east-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			CDNDomain:       getEnv("AWS_CLOUDFRONT_DOMAIN", ""),
		},
		ImageKit: &ImageKitConfig{
			PublicKey:   getEnv("IMAGEKIT_PUBLIC_KEY", ""),
			PrivateKey:  getEnv("IMAGEKIT_PRIVATE_KEY", ""),
			URLEndpoint: getEnv("IMAGEKIT_URL_ENDPOINT", ""),
			UploadURL:   getEnv("IMAGEKIT_UPLOAD_URL", "https://upload.imagekit.io/api/v1/files/upload"),
		},
	}
}
