package mailer

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed templates/*
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

type OTPData struct {
	AppName      string
	Code         string
	ValidMinutes int
}

type EnquiryData struct {
	AppName      string
	Name         string
	Email        string
	Phone        string
	Subject      string
	Message      string
	CreatedAt    string
	AdminURL     string
	SupportEmail string
}

func render(name string, data any) (text, html string, err error) {
	var tb, hb bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&tb, name+".txt", data); err != nil {
		return "", "", fmt.Errorf("render %s.txt: %w", name, err)
	}
	if err := htmlTemplates.ExecuteTemplate(&hb, name+".html", data); err != nil {
		return "", "", fmt.Errorf("render %s.html: %w", name, err)
	}
	return tb.String(), hb.String(), nil
}

func OTPJob(to string, data OTPData) (Job, error) {
	text, html, err := render("otp", data)
	if err != nil {
		return Job{}, err
	}
	return Job{
		To:      []string{to},
		Subject: fmt.Sprintf("Verify Your Email - %s", data.AppName),
		Text:    text,
		HTML:    html,
	}, nil
}

func EnquiryAdminJob(to string, data EnquiryData) (Job, error) {
	text, html, err := render("enquiry_admin", data)
	if err != nil {
		return Job{}, err
	}
	return Job{
		To:      []string{to},
		Subject: "New Enquiry: " + data.Subject,
		Text:    text,
		HTML:    html,
	}, nil
}

func EnquiryConfirmationJob(data EnquiryData) (Job, error) {
	text, html, err := render("enquiry_confirmation", data)
	if err != nil {
		return Job{}, err
	}
	return Job{
		To:      []string{data.Email},
		Subject: "We received your enquiry: " + data.Subject,
		Text:    text,
		HTML:    html,
	}, nil
}
