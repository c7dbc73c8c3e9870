package xmlutils

// SMSBackup holds the XPath expressions for SMS backup files
// (<smses><sms address=".." date=".." body=".."/></smses>).
var SMSBackup = struct {
	Message string
	ID      string
	Address string
	Date    string
	Body    string
	Type    string
}{
	Message: "//smses/sms",
	ID:      "@_id",
	Address: "@address",
	Date:    "@date",
	Body:    "@body",
	Type:    "@type",
}

// SMSTypeInbox is the backup "type" attribute value of received messages.
const SMSTypeInbox = "1"
