package main

import (
	"context"
	"fmt"
	"os"
	"passreset/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const (
	passwordResetSubject = "Reset your password"
	passwordResetHtml    = `<p>Somebody asked to reset the password of your account.</p>
<p><a href="{{passwordResetUrl}}">Choose a new password</a>. The link is valid until {{expiresAt}}.</p>
<p>If it was not you, ignore this email.</p>`
	passwordResetText = `Somebody asked to reset the password of your account.

Choose a new password: {{passwordResetUrl}}
The link is valid until {{expiresAt}}.

If it was not you, ignore this email.`
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadAws()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	svc := ses.NewFromConfig(loadAwsConfig(cfg))
	name := cfg.AwsEmailPasswordResetTemplate

	switch os.Args[1] {
	case "create":
		createEmailTemplate(svc, name, passwordResetSubject, passwordResetHtml, passwordResetText)
	case "delete":
		deleteEmailTemplate(svc, name)
	case "send":
		if len(os.Args) != 4 {
			usage()
		}
		sendEmailTemplate(svc, cfg.AwsEmailSender, os.Args[2], name, os.Args[3])
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s create|delete|send <to> <template data json>\n", os.Args[0])
	os.Exit(2)
}

func loadAwsConfig(cfg *config.AwsConfig) aws.Config {
	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(cfg.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AwsAccessKey,
				cfg.AwsSecretKey,
				"",
			),
		),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return awsCfg
}

func createEmailTemplate(svc *ses.Client, name string, subject string, htmlPart string, textPart string) {
	result, err := svc.CreateTemplate(context.Background(), &ses.CreateTemplateInput{
		Template: &types.Template{
			SubjectPart:  &subject,
			HtmlPart:     &htmlPart,
			TextPart:     &textPart,
			TemplateName: &name,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Success:")
	fmt.Println(result)
}

func deleteEmailTemplate(svc *ses.Client, name string) {
	result, err := svc.DeleteTemplate(context.Background(), &ses.DeleteTemplateInput{TemplateName: &name})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Success:")
	fmt.Println(result)
}

func sendEmailTemplate(svc *ses.Client, sender string, to string, name string, args string) {
	result, err := svc.SendTemplatedEmail(
		context.Background(),
		&ses.SendTemplatedEmailInput{
			Source: aws.String(sender),
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{to},
			},
			Template:     &name,
			TemplateData: &args,
		},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Success:")
	fmt.Println(result)
}
