package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	PaymentGatewaySecret string

	CourierAPIURL      string
	CustomerServiceURL string

	SMTPAddr     string
	SMTPFrom     string
	SMTPUser     string
	SMTPPassword string

	KafkaHost              string
	KafkaOrderChangedTopic string
}
