package templates

import (
	"bytes"
	"html/template"
)

type VerificationEmailData struct {
	Code string
}

const verificationHTML = `
<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8"/>
  <title>UofG Marketplace Verification Code</title>
  <style>
    body {
      margin: 0;
      padding: 0;
      font-family: Arial, sans-serif;
      background-color: #f5f5f5;
      color: #333;
    }
    .email-container {
      width: 100%;
      max-width: 600px;
      margin: 0 auto;
      background-color: #ffffff;
      border-radius: 6px;
      overflow: hidden;
      box-shadow: 0 2px 5px rgba(0,0,0,0.1);
    }
    .header {
      background-color: #003865;
      padding: 20px;
      text-align: center;
      color: #fff;
    }
    .header h1 {
      margin: 10px 0 0;
      font-size: 24px;
    }
    .content {
      padding: 20px;
      text-align: left;
    }
    .code-container {
      text-align: center;
      margin: 20px 0;
    }
    .code {
      display: inline-block;
      padding: 12px 24px;
      background-color: #f0f0f0;
      border-radius: 4px;
      font-size: 28px;
      font-weight: bold;
      letter-spacing: 6px;
      color: #003865;
    }
    .footer {
      font-size: 12px;
      color: #999;
      text-align: center;
      padding: 10px 20px;
    }
  </style>
</head>
<body>
  <table class="email-container" role="presentation" cellspacing="0" cellpadding="0">
    <tr>
      <td>
        <!-- HEADER SECTION -->
        <div class="header">
          <h1>UofG Marketplace</h1>
        </div>

        <!-- BODY CONTENT -->
        <div class="content">
          <p>Hello,</p>
          <p>Use the code below to verify your university email address.
             It is valid for 10 minutes.</p>

          <div class="code-container">
            <span class="code">{{.Code}}</span>
          </div>

          <p>If you did not register for UofG Marketplace you can ignore
             this email.</p>
        </div>

        <!-- FOOTER SECTION -->
        <div class="footer">
          <p>&copy; 2026 UofG Marketplace. All rights reserved.</p>
        </div>
      </td>
    </tr>
  </table>
</body>
</html>
`

func RenderVerificationHTML(data VerificationEmailData) (string, error) {
	tmpl, err := template.New("verification").Parse(verificationHTML)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
