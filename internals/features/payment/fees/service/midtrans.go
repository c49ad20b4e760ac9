package service

import (
	"os"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"lembagaku_backend/internals/features/payment/fees/model"
)

var SnapClient snap.Client

// Panggil saat bootstrap app
func InitMidtrans(serverKey string) {
	env := midtrans.Sandbox
	if strings.EqualFold(strings.TrimSpace(os.Getenv("MIDTRANS_ENV")), "production") {
		env = midtrans.Production
	}
	SnapClient.New(serverKey, env)
}

// Buat Snap token + redirect_url untuk satu tagihan user
func GenerateSnapToken(bill model.UserFeeBillModel, name, email string) (string, string, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  bill.UserFeeBillOrderID,
			GrossAmt: int64(bill.UserFeeBillAmountIDR),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: name,
			Email: email,
		},
	}

	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return "", "", err
	}

	return resp.Token, resp.RedirectURL, nil
}
