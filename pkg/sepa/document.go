package sepa

import (
	"encoding/xml"
	"strconv"
)

// Marshaling structs for the document tree. Element order follows the pain
// schemas and must not change; the schema validator rejects reordered output.

type groupHeader struct {
	MsgID    string          `xml:"MsgId"`
	CreDtTm  string          `xml:"CreDtTm"`
	NbOfTxs  string          `xml:"NbOfTxs"`
	CtrlSum  string          `xml:"CtrlSum"`
	InitgPty initiatingParty `xml:"InitgPty"`
}

type initiatingParty struct {
	Nm string   `xml:"Nm"`
	ID *partyID `xml:"Id,omitempty"`
}

type partyID struct {
	OrgID orgID `xml:"OrgId"`
}

type orgID struct {
	Othr otherID `xml:"Othr"`
}

type otherID struct {
	ID string `xml:"Id"`
}

type codeChoice struct {
	Cd string `xml:"Cd"`
}

type paymentTypeInfo struct {
	SvcLvl    *codeChoice `xml:"SvcLvl,omitempty"`
	LclInstrm *codeChoice `xml:"LclInstrm,omitempty"`
	SeqTp     string      `xml:"SeqTp,omitempty"`
	CtgyPurp  *codeChoice `xml:"CtgyPurp,omitempty"`
}

type partyName struct {
	Nm string `xml:"Nm"`
}

type cashAccount struct {
	ID ibanID `xml:"Id"`
}

type ibanID struct {
	IBAN string `xml:"IBAN"`
}

type agent struct {
	FinInstnID finInstnID `xml:"FinInstnId"`
}

type finInstnID struct {
	BIC  string   `xml:"BIC,omitempty"`
	Othr *otherID `xml:"Othr,omitempty"`
}

type paymentID struct {
	InstrID    string `xml:"InstrId,omitempty"`
	EndToEndID string `xml:"EndToEndId"`
}

type activeAmount struct {
	Ccy   string `xml:"Ccy,attr"`
	Value string `xml:",chardata"`
}

type remittance struct {
	Ustrd string `xml:"Ustrd"`
}

// agentFor renders a BIC when present and the NOTPROVIDED marker otherwise.
func agentFor(bic string) agent {
	if bic == "" {
		return agent{FinInstnID: finInstnID{Othr: &otherID{ID: "NOTPROVIDED"}}}
	}
	return agent{FinInstnID: finInstnID{BIC: bic}}
}

func (m *message) buildGroupHeader() groupHeader {
	hdr := groupHeader{
		MsgID:    m.MessageIdentification(),
		CreDtTm:  m.CreationDateTime(),
		NbOfTxs:  strconv.Itoa(m.txCount),
		CtrlSum:  m.AmountTotal().StringFixed(2),
		InitgPty: initiatingParty{Nm: m.account.Name()},
	}
	if ci := m.account.CreditorIdentifier(); ci != "" {
		hdr.InitgPty.ID = &partyID{OrgID: orgID{Othr: otherID{ID: ci}}}
	}
	return hdr
}

func (m *message) chargeBearer() string {
	if cb := m.account.ChargeBearer(); cb != "" {
		return cb
	}
	return "SLEV"
}

// Credit transfer document (pain.001 family)

type ctDocument struct {
	XMLName        xml.Name     `xml:"Document"`
	Xmlns          string       `xml:"xmlns,attr"`
	XmlnsXsi       string       `xml:"xmlns:xsi,attr"`
	SchemaLocation string       `xml:"xsi:schemaLocation,attr"`
	Initiation     ctInitiation `xml:"CstmrCdtTrfInitn"`
}

type ctInitiation struct {
	GrpHdr groupHeader     `xml:"GrpHdr"`
	PmtInf []ctPaymentInfo `xml:"PmtInf"`
}

type ctPaymentInfo struct {
	PmtInfID    string           `xml:"PmtInfId"`
	PmtMtd      string           `xml:"PmtMtd"`
	BtchBookg   string           `xml:"BtchBookg"`
	NbOfTxs     string           `xml:"NbOfTxs"`
	CtrlSum     string           `xml:"CtrlSum"`
	PmtTpInf    *paymentTypeInfo `xml:"PmtTpInf,omitempty"`
	ReqdExctnDt string           `xml:"ReqdExctnDt"`
	Dbtr        partyName        `xml:"Dbtr"`
	DbtrAcct    cashAccount      `xml:"DbtrAcct"`
	DbtrAgt     agent            `xml:"DbtrAgt"`
	ChrgBr      string           `xml:"ChrgBr"`
	CdtTrfTxInf []ctInstruction  `xml:"CdtTrfTxInf"`
}

type ctInstruction struct {
	PmtID    paymentID   `xml:"PmtId"`
	Amt      ctAmount    `xml:"Amt"`
	CdtrAgt  *agent      `xml:"CdtrAgt,omitempty"`
	Cdtr     partyName   `xml:"Cdtr"`
	CdtrAcct cashAccount `xml:"CdtrAcct"`
	RmtInf   *remittance `xml:"RmtInf,omitempty"`
}

type ctAmount struct {
	InstdAmt activeAmount `xml:"InstdAmt"`
}

func buildCreditTransferDocument(m *message, schema Schema) any {
	doc := ctDocument{
		Xmlns:          schema.Namespace(),
		XmlnsXsi:       "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLocation: schema.SchemaLocation(),
		Initiation: ctInitiation{
			GrpHdr: m.buildGroupHeader(),
		},
	}

	for i, g := range m.groups {
		first := g.transactions[0].(*CreditTransferTransaction)
		info := ctPaymentInfo{
			PmtInfID:    m.batchIdentifier(i),
			PmtMtd:      "TRF",
			BtchBookg:   strconv.FormatBool(first.BatchBooking()),
			NbOfTxs:     strconv.Itoa(len(g.transactions)),
			CtrlSum:     amountTotal(g.transactions).StringFixed(2),
			ReqdExctnDt: first.RequestedDate().Format(dateFormat),
			Dbtr:        partyName{Nm: m.account.Name()},
			DbtrAcct:    cashAccount{ID: ibanID{IBAN: m.account.IBAN()}},
			DbtrAgt:     agentFor(m.account.BIC()),
			ChrgBr:      m.chargeBearer(),
		}
		if first.ServiceLevel() != "" || first.CategoryPurpose() != "" {
			info.PmtTpInf = &paymentTypeInfo{}
			if first.ServiceLevel() != "" {
				info.PmtTpInf.SvcLvl = &codeChoice{Cd: first.ServiceLevel()}
			}
			if first.CategoryPurpose() != "" {
				info.PmtTpInf.CtgyPurp = &codeChoice{Cd: first.CategoryPurpose()}
			}
		}

		for _, tx := range g.transactions {
			ct := tx.(*CreditTransferTransaction)
			instr := ctInstruction{
				PmtID: paymentID{
					InstrID:    ct.Instruction(),
					EndToEndID: ct.endToEndID(),
				},
				Amt: ctAmount{InstdAmt: activeAmount{
					Ccy:   ct.Currency(),
					Value: ct.Amount().StringFixed(2),
				}},
				Cdtr:     partyName{Nm: ct.Name()},
				CdtrAcct: cashAccount{ID: ibanID{IBAN: ct.IBAN()}},
			}
			if ct.BIC() != "" {
				a := agentFor(ct.BIC())
				instr.CdtrAgt = &a
			}
			if ct.RemittanceInformation() != "" {
				instr.RmtInf = &remittance{Ustrd: ct.RemittanceInformation()}
			}
			info.CdtTrfTxInf = append(info.CdtTrfTxInf, instr)
		}
		doc.Initiation.PmtInf = append(doc.Initiation.PmtInf, info)
	}
	return doc
}

// Direct debit document (pain.008 family)

type ddDocument struct {
	XMLName        xml.Name     `xml:"Document"`
	Xmlns          string       `xml:"xmlns,attr"`
	XmlnsXsi       string       `xml:"xmlns:xsi,attr"`
	SchemaLocation string       `xml:"xsi:schemaLocation,attr"`
	Initiation     ddInitiation `xml:"CstmrDrctDbtInitn"`
}

type ddInitiation struct {
	GrpHdr groupHeader     `xml:"GrpHdr"`
	PmtInf []ddPaymentInfo `xml:"PmtInf"`
}

type ddPaymentInfo struct {
	PmtInfID     string           `xml:"PmtInfId"`
	PmtMtd       string           `xml:"PmtMtd"`
	BtchBookg    string           `xml:"BtchBookg"`
	NbOfTxs      string           `xml:"NbOfTxs"`
	CtrlSum      string           `xml:"CtrlSum"`
	PmtTpInf     paymentTypeInfo  `xml:"PmtTpInf"`
	ReqdColltnDt string           `xml:"ReqdColltnDt"`
	Cdtr         partyName        `xml:"Cdtr"`
	CdtrAcct     cashAccount      `xml:"CdtrAcct"`
	CdtrAgt      agent            `xml:"CdtrAgt"`
	ChrgBr       string           `xml:"ChrgBr"`
	CdtrSchmeID  creditorSchemeID `xml:"CdtrSchmeId"`
	DrctDbtTxInf []ddInstruction  `xml:"DrctDbtTxInf"`
}

type creditorSchemeID struct {
	ID schemePartyID `xml:"Id"`
}

type schemePartyID struct {
	PrvtID schemePrvtID `xml:"PrvtId"`
}

type schemePrvtID struct {
	Othr schemeOther `xml:"Othr"`
}

type schemeOther struct {
	ID      string     `xml:"Id"`
	SchmeNm schemeName `xml:"SchmeNm"`
}

type schemeName struct {
	Prtry string `xml:"Prtry"`
}

type ddInstruction struct {
	PmtID     paymentID     `xml:"PmtId"`
	InstdAmt  activeAmount  `xml:"InstdAmt"`
	DrctDbtTx directDebitTx `xml:"DrctDbtTx"`
	DbtrAgt   agent         `xml:"DbtrAgt"`
	Dbtr      partyName     `xml:"Dbtr"`
	DbtrAcct  cashAccount   `xml:"DbtrAcct"`
	RmtInf    *remittance   `xml:"RmtInf,omitempty"`
}

type directDebitTx struct {
	MndtRltdInf mandateInfo `xml:"MndtRltdInf"`
}

type mandateInfo struct {
	MndtID        string         `xml:"MndtId"`
	DtOfSgntr     string         `xml:"DtOfSgntr"`
	AmdmntInd     string         `xml:"AmdmntInd,omitempty"`
	AmdmntInfDtls *amendmentInfo `xml:"AmdmntInfDtls,omitempty"`
}

type amendmentInfo struct {
	OrgnlDbtrAcct *cashAccount `xml:"OrgnlDbtrAcct,omitempty"`
	OrgnlDbtrAgt  *agent       `xml:"OrgnlDbtrAgt,omitempty"`
}

func buildDirectDebitDocument(m *message, schema Schema) any {
	doc := ddDocument{
		Xmlns:          schema.Namespace(),
		XmlnsXsi:       "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLocation: schema.SchemaLocation(),
		Initiation: ddInitiation{
			GrpHdr: m.buildGroupHeader(),
		},
	}

	for i, g := range m.groups {
		first := g.transactions[0].(*DirectDebitTransaction)
		info := ddPaymentInfo{
			PmtInfID:  m.batchIdentifier(i),
			PmtMtd:    "DD",
			BtchBookg: strconv.FormatBool(first.BatchBooking()),
			NbOfTxs:   strconv.Itoa(len(g.transactions)),
			CtrlSum:   amountTotal(g.transactions).StringFixed(2),
			PmtTpInf: paymentTypeInfo{
				SvcLvl:    &codeChoice{Cd: "SEPA"},
				LclInstrm: &codeChoice{Cd: first.LocalInstrument()},
				SeqTp:     first.SequenceType(),
			},
			ReqdColltnDt: first.RequestedDate().Format(dateFormat),
			Cdtr:         partyName{Nm: m.account.Name()},
			CdtrAcct:     cashAccount{ID: ibanID{IBAN: m.account.IBAN()}},
			CdtrAgt:      agentFor(m.account.BIC()),
			ChrgBr:       m.chargeBearer(),
			CdtrSchmeID: creditorSchemeID{
				ID: schemePartyID{PrvtID: schemePrvtID{Othr: schemeOther{
					ID:      m.account.CreditorIdentifier(),
					SchmeNm: schemeName{Prtry: "SEPA"},
				}}},
			},
		}

		for _, tx := range g.transactions {
			dd := tx.(*DirectDebitTransaction)
			instr := ddInstruction{
				PmtID: paymentID{
					InstrID:    dd.Instruction(),
					EndToEndID: dd.endToEndID(),
				},
				InstdAmt: activeAmount{
					Ccy:   dd.Currency(),
					Value: dd.Amount().StringFixed(2),
				},
				DrctDbtTx: directDebitTx{MndtRltdInf: mandateInfo{
					MndtID:    dd.MandateID(),
					DtOfSgntr: dd.MandateDateOfSignature().Format(dateFormat),
				}},
				DbtrAgt:  agentFor(dd.BIC()),
				Dbtr:     partyName{Nm: dd.Name()},
				DbtrAcct: cashAccount{ID: ibanID{IBAN: dd.IBAN()}},
			}
			switch {
			case dd.OriginalDebtorAccount() != "":
				instr.DrctDbtTx.MndtRltdInf.AmdmntInd = "true"
				instr.DrctDbtTx.MndtRltdInf.AmdmntInfDtls = &amendmentInfo{
					OrgnlDbtrAcct: &cashAccount{ID: ibanID{IBAN: dd.OriginalDebtorAccount()}},
				}
			case dd.SameMandateNewDebtorAgent():
				instr.DrctDbtTx.MndtRltdInf.AmdmntInd = "true"
				instr.DrctDbtTx.MndtRltdInf.AmdmntInfDtls = &amendmentInfo{
					OrgnlDbtrAgt: &agent{FinInstnID: finInstnID{Othr: &otherID{ID: "SMNDA"}}},
				}
			}
			if dd.RemittanceInformation() != "" {
				instr.RmtInf = &remittance{Ustrd: dd.RemittanceInformation()}
			}
			info.DrctDbtTxInf = append(info.DrctDbtTxInf, instr)
		}
		doc.Initiation.PmtInf = append(doc.Initiation.PmtInf, info)
	}
	return doc
}
