package main

import (
	"context"
	"flag"
	"html/template"
	"log"
	"time"

	"dues_portal_echo/internal/config"
	"dues_portal_echo/internal/services"
)

func main() {
	to := flag.String("to", "", "Recipient address")
	subject := flag.String("subject", "Test message from the dues portal", "Subject line")
	msg := flag.String("msg", "If you can read this, outgoing email works.", "Message body")
	flag.Parse()

	if *to == "" {
		log.Fatal("Please provide a recipient using -to flag")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	sender := services.BuildEmailSender(cfg)
	log.Printf("Sending message to %s via %s", *to, sender.Name())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = sender.Send(ctx, services.EmailMessage{
		To:      *to,
		Subject: *subject,
		HTML:    "<p>" + template.HTMLEscapeString(*msg) + "</p>",
	})
	if err != nil {
		log.Fatalf("Failed to send message: %v", err)
	}

	log.Println("Message sent successfully!")
}
